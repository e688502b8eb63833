package repository

import (
	"context"
	"database/sql"
	"errors"

	"blog-platform/backend/internal/identity/domain"
)

// PostgresRepository reads users from the users table.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a credential store backed by the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByLoginOrEmail returns the user matching login or email, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByLoginOrEmail(ctx context.Context, loginOrEmail string) (*domain.User, error) {
	const query = `
        SELECT id, login, email, password_hash, created_at
        FROM users
        WHERE login = $1 OR email = $1
    `
	var u domain.User
	err := r.db.QueryRowContext(ctx, query, loginOrEmail).Scan(
		&u.ID, &u.Login, &u.Email, &u.PasswordHash, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetByID returns the user with the given id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        SELECT id, login, email, password_hash, created_at
        FROM users
        WHERE id = $1
    `
	var u domain.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Login, &u.Email, &u.PasswordHash, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
