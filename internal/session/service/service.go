// Package service implements the session lifecycle: login, refresh token
// rotation, logout, and multi-device management.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"blog-platform/backend/internal/audit"
	"blog-platform/backend/internal/events"
	"blog-platform/backend/internal/security"
	"blog-platform/backend/internal/session/domain"
	"blog-platform/backend/internal/session/repository"
)

// Sentinel errors for the session service; the handler maps them to HTTP
// status codes. Every 401-class error stays distinct internally so logs can
// tell a replayed token from a missing session, while the boundary collapses
// them into one uniform response.
var (
	ErrNoSession      = errors.New("no live session for device")
	ErrWrongUser      = errors.New("refresh token user does not own session")
	ErrSessionExpired = errors.New("session expired")
	ErrReuseDetected  = errors.New("refresh token reuse detected; session revoked")
	ErrStaleToken     = errors.New("refresh token superseded by a newer one")
	ErrNotFound       = errors.New("device session not found")
	ErrForbidden      = errors.New("operation forbidden on this device session")
)

// TokenPair is the outcome of Login and Refresh: a short-lived access token
// plus the refresh token the client must present on the next rotation.
type TokenPair struct {
	UserID           string
	DeviceID         string
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// CredentialValidator checks a login-or-email + password pair and returns the
// user id on success.
type CredentialValidator interface {
	Validate(ctx context.Context, loginOrEmail, password string) (string, error)
}

// SessionService owns device sessions and the refresh tokens bound to them.
//
// The invariant everything below protects: a live session's LastActiveDate
// equals the iat of the most recently issued refresh token for that device.
// Any presented refresh token whose iat differs has been superseded, which on
// the refresh path means the token was already spent and someone is replaying
// it.
type SessionService struct {
	sessions repository.Repository
	creds    CredentialValidator
	access   *security.Signer
	refresh  *security.Signer
	auditor  audit.AuditLogger
	producer events.Producer
}

// NewSessionService returns a SessionService with the given dependencies.
// auditor and producer may be nil; both are best-effort side channels.
func NewSessionService(
	sessions repository.Repository,
	creds CredentialValidator,
	access, refresh *security.Signer,
	auditor audit.AuditLogger,
	producer events.Producer,
) *SessionService {
	return &SessionService{
		sessions: sessions,
		creds:    creds,
		access:   access,
		refresh:  refresh,
		auditor:  auditor,
		producer: producer,
	}
}

// Login validates credentials and opens a brand-new device session. Every
// login creates a new session with a fresh device id; concurrent logins from
// the same browser coexist as separate devices.
func (s *SessionService) Login(ctx context.Context, loginOrEmail, password, ip, title string) (*TokenPair, error) {
	userID, err := s.creds.Validate(ctx, loginOrEmail, password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sess := &domain.DeviceSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		DeviceID:  uuid.NewString(),
		IP:        ip,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	refreshToken, iat, refreshExp, err := s.refresh.Issue(userID, sess.DeviceID)
	if err != nil {
		return nil, err
	}
	sess.LastActiveDate = iat
	sess.ExpirationDate = refreshExp

	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}

	accessToken, _, accessExp, err := s.access.Issue(userID, "")
	if err != nil {
		return nil, err
	}

	s.audit(ctx, userID, sess.DeviceID, audit.ActionLogin, ip)
	s.emit(ctx, events.TypeSessionCreated, userID, sess.DeviceID, ip)

	return &TokenPair{
		UserID:           userID,
		DeviceID:         sess.DeviceID,
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Refresh rotates the refresh token for the session identified by the claims.
// The rotation is a compare-and-swap on LastActiveDate: of any number of
// concurrent refreshes with the same token, exactly one wins. A losing CAS is
// indistinguishable from a replayed token and gets the same treatment, the
// whole session is revoked.
func (s *SessionService) Refresh(ctx context.Context, claims *security.Claims, ip string) (*TokenPair, error) {
	sess, err := s.lookup(ctx, claims)
	if err != nil {
		return nil, err
	}
	if claims.IssuedAt != sess.LastActiveDate {
		return nil, s.revokeOnReuse(ctx, sess, ip)
	}

	// Sign before the swap so the stored version only ever advances to an iat
	// that exists in a real token. A lost race discards the signed token.
	refreshToken, iat, refreshExp, err := s.refresh.Issue(sess.UserID, sess.DeviceID)
	if err != nil {
		return nil, err
	}
	ok, err := s.sessions.Rotate(ctx, sess.DeviceID, sess.LastActiveDate, iat, refreshExp)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.revokeOnReuse(ctx, sess, ip)
	}

	accessToken, _, accessExp, err := s.access.Issue(sess.UserID, "")
	if err != nil {
		return nil, err
	}

	s.audit(ctx, sess.UserID, sess.DeviceID, audit.ActionRefresh, ip)
	s.emit(ctx, events.TypeSessionRotated, sess.UserID, sess.DeviceID, ip)

	return &TokenPair{
		UserID:           sess.UserID,
		DeviceID:         sess.DeviceID,
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Logout revokes the session identified by the claims. A stale token cannot
// log out: it fails without touching the still-current session, otherwise any
// already-spent token would double as a revocation lever against the live
// device.
func (s *SessionService) Logout(ctx context.Context, claims *security.Claims, ip string) error {
	sess, err := s.lookup(ctx, claims)
	if err != nil {
		return err
	}
	if claims.IssuedAt != sess.LastActiveDate {
		return ErrStaleToken
	}
	if err := s.sessions.SoftDelete(ctx, sess.DeviceID); err != nil {
		return err
	}
	s.audit(ctx, sess.UserID, sess.DeviceID, audit.ActionLogout, ip)
	s.emit(ctx, events.TypeSessionRevoked, sess.UserID, sess.DeviceID, ip)
	return nil
}

// ListDevices returns the caller's live, unexpired sessions. The caller's own
// session must itself be live and current.
func (s *SessionService) ListDevices(ctx context.Context, claims *security.Claims) ([]*domain.DeviceSession, error) {
	sess, err := s.lookup(ctx, claims)
	if err != nil {
		return nil, err
	}
	if claims.IssuedAt != sess.LastActiveDate {
		return nil, ErrStaleToken
	}
	return s.sessions.ListActiveByUser(ctx, sess.UserID, time.Now().UTC())
}

// TerminateDevice revokes one of the caller's other sessions. Terminating the
// current device is refused; use Logout for that. Revealing absence is safe
// here: the caller already proved ownership of a live session of their own.
func (s *SessionService) TerminateDevice(ctx context.Context, claims *security.Claims, targetDeviceID, ip string) error {
	sess, err := s.lookup(ctx, claims)
	if err != nil {
		return err
	}
	if claims.IssuedAt != sess.LastActiveDate {
		return ErrStaleToken
	}
	if targetDeviceID == sess.DeviceID {
		return ErrForbidden
	}
	target, err := s.sessions.GetByDeviceID(ctx, targetDeviceID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrNotFound
	}
	if target.UserID != sess.UserID {
		return ErrForbidden
	}
	if err := s.sessions.SoftDelete(ctx, target.DeviceID); err != nil {
		return err
	}
	s.audit(ctx, sess.UserID, target.DeviceID, audit.ActionTerminateDevice, ip)
	s.emit(ctx, events.TypeSessionRevoked, sess.UserID, target.DeviceID, ip)
	return nil
}

// TerminateAllOther revokes every session of the caller except the current
// one. Unlike refresh and logout, a stale token here does not revoke anything:
// a mass revocation on a replay would hand an attacker a denial-of-service
// lever over the victim's other devices.
func (s *SessionService) TerminateAllOther(ctx context.Context, claims *security.Claims, ip string) error {
	sess, err := s.lookup(ctx, claims)
	if err != nil {
		return err
	}
	if claims.IssuedAt != sess.LastActiveDate {
		return ErrStaleToken
	}
	if err := s.sessions.SoftDeleteAllExcept(ctx, sess.UserID, sess.DeviceID); err != nil {
		return err
	}
	s.audit(ctx, sess.UserID, sess.DeviceID, audit.ActionTerminateAllOther, ip)
	s.emit(ctx, events.TypeSessionRevoked, sess.UserID, sess.DeviceID, ip)
	return nil
}

// lookup fetches the live session for the claims and runs the checks shared
// by every verb: the session exists, belongs to the token's user, and has not
// expired. Staleness of the iat is checked by each caller because the
// consequence differs per verb.
func (s *SessionService) lookup(ctx context.Context, claims *security.Claims) (*domain.DeviceSession, error) {
	sess, err := s.sessions.GetByDeviceID(ctx, claims.DeviceID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNoSession
	}
	if sess.UserID != claims.UserID {
		return nil, ErrWrongUser
	}
	if sess.State(time.Now().UTC()) == domain.StateExpired {
		return nil, ErrSessionExpired
	}
	return sess, nil
}

// revokeOnReuse soft-deletes the session after a stale-iat presentation or a
// lost rotation race and always returns ErrReuseDetected. The delete is
// best-effort; the caller gets 401 either way.
func (s *SessionService) revokeOnReuse(ctx context.Context, sess *domain.DeviceSession, ip string) error {
	if err := s.sessions.SoftDelete(ctx, sess.DeviceID); err != nil {
		slog.Error("session: failed to revoke session on reuse", "deviceId", sess.DeviceID, "error", err)
	}
	s.audit(ctx, sess.UserID, sess.DeviceID, audit.ActionReuseDetected, ip)
	s.emit(ctx, events.TypeReuseDetected, sess.UserID, sess.DeviceID, ip)
	return ErrReuseDetected
}

func (s *SessionService) audit(ctx context.Context, userID, deviceID, action, ip string) {
	if s.auditor == nil {
		return
	}
	s.auditor.LogEvent(ctx, userID, deviceID, action, ip)
}

func (s *SessionService) emit(ctx context.Context, eventType, userID, deviceID, ip string) {
	if s.producer == nil {
		return
	}
	event := &events.Event{
		Type:       eventType,
		UserID:     userID,
		DeviceID:   deviceID,
		IP:         ip,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.producer.Emit(ctx, event); err != nil {
		slog.Warn("session: event emit failed", "type", eventType, "error", err)
	}
}
