package domain

import "time"

// State is the lifecycle state of a device session. Deleted is terminal;
// Expired is computed from the clock on read and never stored.
type State int

const (
	StateActive State = iota
	StateExpired
	StateDeleted
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateExpired:
		return "expired"
	case StateDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// DeviceSession represents one logical client login, keyed by an opaque
// DeviceID that is unique among non-deleted sessions.
//
// LastActiveDate is whole unix seconds and always equals the iat claim of the
// most recently issued refresh token for this device — it doubles as the
// session's version marker. A refresh token whose iat differs is stale.
type DeviceSession struct {
	ID             string
	UserID         string
	DeviceID       string
	IP             string
	Title          string // derived from User-Agent, never security-relevant
	LastActiveDate int64
	ExpirationDate time.Time // sliding: advances on every successful refresh
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time // nil while the session is live
}

// State classifies the session at the given instant. Callers branch on the
// result instead of inspecting DeletedAt and ExpirationDate directly.
func (s *DeviceSession) State(now time.Time) State {
	if s.DeletedAt != nil {
		return StateDeleted
	}
	if s.ExpirationDate.Before(now) {
		return StateExpired
	}
	return StateActive
}
