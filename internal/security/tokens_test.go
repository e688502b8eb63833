package security

import (
	"errors"
	"testing"
	"time"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestSigner_IssueAndVerify(t *testing.T) {
	s := NewSigner(testSecret, 15*time.Minute)

	before := time.Now().Unix()
	token, iat, exp, err := s.Issue("user-1", "device-1")
	after := time.Now().Unix() + 1
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if iat < before || iat > after {
		t.Errorf("iat = %d, want within [%d, %d]", iat, before, after)
	}
	if got := exp.Unix() - iat; got != int64((15 * time.Minute).Seconds()) {
		t.Errorf("exp-iat = %ds, want 900s", got)
	}

	claims, err := s.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", claims.UserID, "user-1")
	}
	if claims.DeviceID != "device-1" {
		t.Errorf("DeviceID = %q, want %q", claims.DeviceID, "device-1")
	}
	if claims.IssuedAt != iat {
		t.Errorf("decoded iat = %d, want the iat returned by Issue (%d)", claims.IssuedAt, iat)
	}
}

func TestSigner_AccessTokenOmitsDeviceID(t *testing.T) {
	s := NewSigner(testSecret, time.Minute)
	token, _, _, err := s.Issue("user-1", "")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := s.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.DeviceID != "" {
		t.Errorf("DeviceID = %q, want empty for access tokens", claims.DeviceID)
	}
}

func TestSigner_Expired(t *testing.T) {
	s := NewSigner(testSecret, -time.Minute)
	token, _, _, err := s.Issue("user-1", "device-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	_, err = s.Verify(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expired token: want ErrTokenExpired, got %v", err)
	}
}

func TestSigner_WrongKey(t *testing.T) {
	issuer := NewSigner(testSecret, time.Minute)
	verifier := NewSigner([]byte("another-secret-another-secret-ab"), time.Minute)

	token, _, _, err := issuer.Issue("user-1", "device-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	_, err = verifier.Verify(token)
	if !errors.Is(err, ErrBadSignature) {
		t.Errorf("wrong key: want ErrBadSignature, got %v", err)
	}
}

func TestSigner_Garbage(t *testing.T) {
	s := NewSigner(testSecret, time.Minute)
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := s.Verify(raw); !errors.Is(err, ErrBadSignature) {
			t.Errorf("Verify(%q): want ErrBadSignature, got %v", raw, err)
		}
	}
}

func TestSigner_CrossFamilyRejected(t *testing.T) {
	access := NewSigner(testSecret, time.Minute)
	refresh := NewSigner([]byte("refresh-secret-refresh-secret-ab"), time.Hour)

	token, _, _, err := access.Issue("user-1", "")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := refresh.Verify(token); err == nil {
		t.Error("access token must not verify against the refresh signer")
	}
}
