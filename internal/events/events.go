// Package events defines the interface for emitting session security events (e.g. to Kafka).
package events

import (
	"context"
	"time"
)

// Event types published by the session subsystem.
const (
	TypeSessionCreated = "session.created"
	TypeSessionRotated = "session.rotated"
	TypeSessionRevoked = "session.revoked"
	TypeReuseDetected  = "session.reuse_detected"
)

// Event is one session security event, serialized to JSON on the wire.
type Event struct {
	Type       string    `json:"type"`
	UserID     string    `json:"userId"`
	DeviceID   string    `json:"deviceId"`
	IP         string    `json:"ip,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Producer emits session events. Callers use it best-effort: log and ignore errors.
type Producer interface {
	// Emit sends a single event. Implementations may block briefly.
	// Returns an error only on write failure; callers typically log and ignore.
	Emit(ctx context.Context, event *Event) error
	// Close releases resources (e.g. Kafka writer). Safe to call if already closed.
	Close() error
}
