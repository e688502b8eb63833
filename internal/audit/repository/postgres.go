package repository

import (
	"context"
	"database/sql"

	"blog-platform/backend/internal/audit/domain"
)

// PostgresRepository appends audit entries to the audit_log table.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an audit repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts one audit entry.
func (r *PostgresRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	const query = `
        INSERT INTO audit_log (id, user_id, device_id, action, ip, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.DeviceID, entry.Action, entry.IP, entry.CreatedAt,
	)
	return err
}
