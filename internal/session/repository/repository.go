package repository

import (
	"context"
	"errors"
	"time"

	"blog-platform/backend/internal/session/domain"
)

// ErrDeviceIDTaken is returned by Create when a live session with the same
// device id already exists. Device ids are freshly generated UUIDs, so hitting
// this means an id collision or a caller bug, not a normal flow.
var ErrDeviceIDTaken = errors.New("device id already in use")

// Repository persists device sessions. Reads consider only live rows
// (deleted_at IS NULL); soft-deleted rows are invisible to every method here.
type Repository interface {
	// Create inserts a new session. The session must have ID and DeviceID set.
	Create(ctx context.Context, s *domain.DeviceSession) error

	// GetByDeviceID returns the live session for deviceID, or nil if none.
	GetByDeviceID(ctx context.Context, deviceID string) (*domain.DeviceSession, error)

	// Rotate conditionally advances the session's version in a single
	// compare-and-swap: the update applies only while last_active_date still
	// equals expectedLastActive. Returns false when no row matched — the
	// caller lost a race or presented a stale token, and must not retry.
	Rotate(ctx context.Context, deviceID string, expectedLastActive, newLastActive int64, newExpiration time.Time) (bool, error)

	// SoftDelete marks the live session for deviceID as deleted. Deleting an
	// already-deleted or unknown session is a no-op.
	SoftDelete(ctx context.Context, deviceID string) error

	// SoftDeleteAllExcept marks every live session of userID as deleted,
	// except the one with keepDeviceID.
	SoftDeleteAllExcept(ctx context.Context, userID, keepDeviceID string) error

	// ListActiveByUser returns the user's live, unexpired sessions ordered by
	// creation time.
	ListActiveByUser(ctx context.Context, userID string, now time.Time) ([]*domain.DeviceSession, error)
}
