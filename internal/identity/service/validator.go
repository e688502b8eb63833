package service

import (
	"context"
	"errors"

	"blog-platform/backend/internal/identity/repository"
	"blog-platform/backend/internal/security"
)

// ErrInvalidCredentials is returned for every credential failure — unknown
// login, unknown email, or wrong password. One error for all cases so the
// boundary cannot leak which field was wrong.
var ErrInvalidCredentials = errors.New("invalid login or password")

// Validator checks a login-or-email + password pair against stored hashes.
type Validator struct {
	users  repository.Repository
	hasher *security.Hasher
	// dummyHash absorbs a bcrypt comparison when the user lookup misses, so
	// unknown-login and wrong-password failures cost the same.
	dummyHash string
}

// NewValidator returns a Validator over the given credential store and hasher.
func NewValidator(users repository.Repository, hasher *security.Hasher) *Validator {
	dummy, err := hasher.Hash([]byte("validator-timing-pad"))
	if err != nil {
		dummy = ""
	}
	return &Validator{users: users, hasher: hasher, dummyHash: dummy}
}

// Validate returns the user id on success. Unknown users and wrong passwords
// each cost one bcrypt comparison and return the same generic error, so
// neither the response nor its latency reveals which field was wrong.
func (v *Validator) Validate(ctx context.Context, loginOrEmail, password string) (string, error) {
	if loginOrEmail == "" || password == "" {
		return "", ErrInvalidCredentials
	}
	user, err := v.users.GetByLoginOrEmail(ctx, loginOrEmail)
	if err != nil {
		return "", err
	}
	if user == nil {
		_ = v.hasher.Compare(v.dummyHash, []byte(password))
		return "", ErrInvalidCredentials
	}
	if err := v.hasher.Compare(user.PasswordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return user.ID, nil
}
