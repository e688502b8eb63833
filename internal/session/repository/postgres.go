package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"blog-platform/backend/internal/session/domain"
)

// PostgresRepository stores device sessions in the device_sessions table.
// A partial unique index on (device_id) WHERE deleted_at IS NULL enforces the
// one-live-session-per-device invariant at the storage layer.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a session repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the session to the database. The session must have ID and DeviceID set.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.DeviceSession) error {
	const query = `
        INSERT INTO device_sessions
            (id, user_id, device_id, ip, title, last_active_date, expiration_date, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.UserID, s.DeviceID, s.IP, s.Title,
		s.LastActiveDate, s.ExpirationDate, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrDeviceIDTaken
		}
		return err
	}
	return nil
}

// GetByDeviceID returns the live session for deviceID, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByDeviceID(ctx context.Context, deviceID string) (*domain.DeviceSession, error) {
	const query = `
        SELECT id, user_id, device_id, ip, title, last_active_date, expiration_date,
               created_at, updated_at, deleted_at
        FROM device_sessions
        WHERE device_id = $1 AND deleted_at IS NULL
    `
	s, err := scanSession(r.db.QueryRowContext(ctx, query, deviceID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// Rotate performs the conditional rotation update. The WHERE clause is the
// compare-and-swap: of two racing callers holding the same expectedLastActive,
// exactly one matches the row; the other sees zero rows affected.
func (r *PostgresRepository) Rotate(ctx context.Context, deviceID string, expectedLastActive, newLastActive int64, newExpiration time.Time) (bool, error) {
	const query = `
        UPDATE device_sessions
        SET last_active_date = $3, expiration_date = $4, updated_at = now()
        WHERE device_id = $1 AND last_active_date = $2 AND deleted_at IS NULL
    `
	res, err := r.db.ExecContext(ctx, query, deviceID, expectedLastActive, newLastActive, newExpiration)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// SoftDelete marks the live session for deviceID as deleted.
func (r *PostgresRepository) SoftDelete(ctx context.Context, deviceID string) error {
	const query = `
        UPDATE device_sessions
        SET deleted_at = now(), updated_at = now()
        WHERE device_id = $1 AND deleted_at IS NULL
    `
	_, err := r.db.ExecContext(ctx, query, deviceID)
	return err
}

// SoftDeleteAllExcept marks every live session of userID as deleted except keepDeviceID.
func (r *PostgresRepository) SoftDeleteAllExcept(ctx context.Context, userID, keepDeviceID string) error {
	const query = `
        UPDATE device_sessions
        SET deleted_at = now(), updated_at = now()
        WHERE user_id = $1 AND device_id <> $2 AND deleted_at IS NULL
    `
	_, err := r.db.ExecContext(ctx, query, userID, keepDeviceID)
	return err
}

// ListActiveByUser returns the user's live, unexpired sessions ordered by creation time.
func (r *PostgresRepository) ListActiveByUser(ctx context.Context, userID string, now time.Time) ([]*domain.DeviceSession, error) {
	const query = `
        SELECT id, user_id, device_id, ip, title, last_active_date, expiration_date,
               created_at, updated_at, deleted_at
        FROM device_sessions
        WHERE user_id = $1 AND deleted_at IS NULL AND expiration_date > $2
        ORDER BY created_at
    `
	rows, err := r.db.QueryContext(ctx, query, userID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.DeviceSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*domain.DeviceSession, error) {
	var s domain.DeviceSession
	var deletedAt sql.NullTime
	err := row.Scan(
		&s.ID, &s.UserID, &s.DeviceID, &s.IP, &s.Title,
		&s.LastActiveDate, &s.ExpirationDate, &s.CreatedAt, &s.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}
	s.DeletedAt = nullTimeToPtr(deletedAt)
	return &s, nil
}

func nullTimeToPtr(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	return &n.Time
}
