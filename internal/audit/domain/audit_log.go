package domain

import "time"

// AuditLog is one recorded session-lifecycle event (login, refresh, logout,
// terminate, reuse detection). Rows are append-only.
type AuditLog struct {
	ID        string
	UserID    string
	DeviceID  string
	Action    string
	IP        string
	CreatedAt time.Time
}
