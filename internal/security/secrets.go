package security

import (
	"errors"
	"os"
	"strings"
)

// ErrInvalidSecret is returned when a signing secret is empty or unreadable.
var ErrInvalidSecret = errors.New("invalid signing secret")

const minSecretLen = 32

// LoadSecret resolves an HS256 signing secret from config. s is either the
// secret itself or a path to a file containing it (trailing newline trimmed).
// Values shorter than 32 bytes are rejected: an HMAC key weaker than the hash
// output defeats the point of signing.
func LoadSecret(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrInvalidSecret
	}
	if strings.HasPrefix(s, "/") || strings.HasPrefix(s, "./") {
		b, err := os.ReadFile(s)
		if err != nil {
			return nil, err
		}
		s = strings.TrimSpace(string(b))
	}
	if len(s) < minSecretLen {
		return nil, ErrInvalidSecret
	}
	return []byte(s), nil
}
