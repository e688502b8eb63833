package security

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSecret_Inline(t *testing.T) {
	secret, err := LoadSecret("0123456789abcdef0123456789abcdef")
	if err != nil {
		t.Fatalf("LoadSecret: %v", err)
	}
	if string(secret) != "0123456789abcdef0123456789abcdef" {
		t.Errorf("secret = %q", secret)
	}
}

func TestLoadSecret_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret")
	if err := os.WriteFile(path, []byte("0123456789abcdef0123456789abcdef\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	secret, err := LoadSecret(path)
	if err != nil {
		t.Fatalf("LoadSecret: %v", err)
	}
	if string(secret) != "0123456789abcdef0123456789abcdef" {
		t.Errorf("secret = %q, trailing newline should be trimmed", secret)
	}
}

func TestLoadSecret_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "too-short"} {
		if _, err := LoadSecret(in); !errors.Is(err, ErrInvalidSecret) {
			t.Errorf("LoadSecret(%q): want ErrInvalidSecret, got %v", in, err)
		}
	}
}

func TestLoadSecret_MissingFile(t *testing.T) {
	if _, err := LoadSecret("/nonexistent/secret/file"); err == nil {
		t.Error("LoadSecret with missing file should return error")
	}
}
