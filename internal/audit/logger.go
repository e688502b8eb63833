// Package audit records session-lifecycle events for operator review.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"blog-platform/backend/internal/audit/domain"
	auditrepo "blog-platform/backend/internal/audit/repository"
)

// Actions recorded by the session subsystem.
const (
	ActionLogin             = "login"
	ActionRefresh           = "refresh"
	ActionLogout            = "logout"
	ActionReuseDetected     = "reuse_detected"
	ActionTerminateDevice   = "terminate_device"
	ActionTerminateAllOther = "terminate_all_other"
)

// AuditLogger writes a single audit event. Used by the session service's code
// paths. LogEvent is best-effort: failures are logged and do not affect the caller.
type AuditLogger interface {
	LogEvent(ctx context.Context, userID, deviceID, action, ip string)
}

// Logger implements AuditLogger using the audit repository.
type Logger struct {
	repo auditrepo.Repository
}

// NewLogger returns an AuditLogger that persists to repo.
func NewLogger(repo auditrepo.Repository) *Logger {
	return &Logger{repo: repo}
}

// LogEvent writes one audit log entry. Best-effort: errors are logged and not returned.
func (l *Logger) LogEvent(ctx context.Context, userID, deviceID, action, ip string) {
	if l == nil || l.repo == nil {
		return
	}
	entry := &domain.AuditLog{
		ID:        uuid.NewString(),
		UserID:    userID,
		DeviceID:  deviceID,
		Action:    action,
		IP:        ip,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		slog.Warn("audit: failed to log event", "action", action, "error", err)
	}
}
