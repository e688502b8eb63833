package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrBadSignature is returned when a token is malformed, signed with the
	// wrong key, or signed with an unexpected method.
	ErrBadSignature = errors.New("bad token signature")
	// ErrTokenExpired is returned when a token's exp claim has passed.
	ErrTokenExpired = errors.New("token expired")
)

// Claims are the verified contents of an access or refresh token. DeviceID is
// empty for access tokens. IssuedAt is whole unix seconds and doubles as the
// session version marker for refresh tokens.
type Claims struct {
	UserID    string
	DeviceID  string
	IssuedAt  int64
	ExpiresAt time.Time
}

type tokenClaims struct {
	jwt.RegisteredClaims
	DeviceID string `json:"deviceId,omitempty"`
}

// Signer issues and verifies one token family (access or refresh) with an
// HS256 secret and a fixed TTL. Construct one instance per family and inject
// it; a Signer is immutable after construction.
type Signer struct {
	secret []byte
	ttl    time.Duration
}

// NewSigner returns a Signer for the given secret and token lifetime.
func NewSigner(secret []byte, ttl time.Duration) *Signer {
	return &Signer{secret: secret, ttl: ttl}
}

// TTL returns the configured token lifetime.
func (s *Signer) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for userID. deviceID is included as a claim when
// non-empty (refresh tokens); pass "" for access tokens. The returned iat is
// the exact issued-at assigned during signing, in whole unix seconds — the
// signer owns iat assignment, callers must not recompute it.
func (s *Signer) Issue(userID, deviceID string) (token string, iat int64, expiresAt time.Time, err error) {
	now := time.Now().UTC().Truncate(time.Second)
	iat = now.Unix()
	expiresAt = now.Add(s.ttl)
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		DeviceID: deviceID,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = t.SignedString(s.secret)
	if err != nil {
		return "", 0, time.Time{}, err
	}
	return token, iat, expiresAt, nil
}

// Verify parses and validates a token (signature, expiry) and returns its
// claims. Expiry and signature failures are distinguished so callers can log
// them apart; both must surface as a generic 401 at the boundary.
func (s *Signer) Verify(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadSignature
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrBadSignature
	}
	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, ErrBadSignature
	}
	if claims.Subject == "" || claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return nil, ErrBadSignature
	}
	return &Claims{
		UserID:    claims.Subject,
		DeviceID:  claims.DeviceID,
		IssuedAt:  claims.IssuedAt.Unix(),
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
