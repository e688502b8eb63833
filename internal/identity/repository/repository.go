package repository

import (
	"context"

	"blog-platform/backend/internal/identity/domain"
)

// Repository is the read-only credential store consumed by the validator.
type Repository interface {
	// GetByLoginOrEmail returns the user whose login or email equals the given
	// value, or nil if no such user exists.
	GetByLoginOrEmail(ctx context.Context, loginOrEmail string) (*domain.User, error)

	// GetByID returns the user with the given id, or nil if no such user exists.
	GetByID(ctx context.Context, id string) (*domain.User, error)
}
