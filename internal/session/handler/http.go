// Package handler exposes the session lifecycle over HTTP: login, refresh,
// logout, and device management. The refresh token travels only in an
// HTTP-only cookie; the access token only in response bodies.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	identityservice "blog-platform/backend/internal/identity/service"
	"blog-platform/backend/internal/logging"
	"blog-platform/backend/internal/security"
	"blog-platform/backend/internal/server/middleware"
	"blog-platform/backend/internal/session/domain"
	"blog-platform/backend/internal/session/service"
)

// SessionManager is the part of the session service the HTTP layer needs.
type SessionManager interface {
	Login(ctx context.Context, loginOrEmail, password, ip, title string) (*service.TokenPair, error)
	Refresh(ctx context.Context, claims *security.Claims, ip string) (*service.TokenPair, error)
	Logout(ctx context.Context, claims *security.Claims, ip string) error
	ListDevices(ctx context.Context, claims *security.Claims) ([]*domain.DeviceSession, error)
	TerminateDevice(ctx context.Context, claims *security.Claims, targetDeviceID, ip string) error
	TerminateAllOther(ctx context.Context, claims *security.Claims, ip string) error
}

// SessionHTTP handles the auth and device routes.
type SessionHTTP struct {
	svc    SessionManager
	cookie CookieConfig
}

// NewSessionHTTP returns the HTTP handler set for the session subsystem.
func NewSessionHTTP(svc SessionManager, cookie CookieConfig) *SessionHTTP {
	return &SessionHTTP{svc: svc, cookie: cookie}
}

// Register mounts the session routes. refreshGuard must verify the refresh
// cookie and put the claims in the request context.
func (h *SessionHTTP) Register(e *echo.Echo, refreshGuard echo.MiddlewareFunc) {
	auth := e.Group("/api/auth")
	auth.POST("/login", h.Login)
	auth.POST("/refresh-token", h.Refresh, refreshGuard)
	auth.POST("/logout", h.Logout, refreshGuard)

	sec := e.Group("/api/security", refreshGuard)
	sec.GET("/devices", h.ListDevices)
	sec.DELETE("/devices/:deviceId", h.TerminateDevice)
	sec.DELETE("/devices", h.TerminateAllOther)
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type deviceResponse struct {
	DeviceID       string    `json:"deviceId"`
	Title          string    `json:"title"`
	IP             string    `json:"ip"`
	LastActiveDate time.Time `json:"lastActiveDate"`
	ExpirationDate time.Time `json:"expirationDate"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Login validates credentials and opens a new device session. The refresh
// token is set as a cookie; the access token is returned in the body.
func (h *SessionHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.From(ctx).With("handler", "session_login")

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	pair, err := h.svc.Login(ctx, req.Login, req.Password,
		c.RealIP(), deviceTitle(c.Request().UserAgent()))
	if err != nil {
		if errors.Is(err, identityservice.ErrInvalidCredentials) {
			l.Warn("login rejected")
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid login or password")
		}
		l.Error("login failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	c.SetCookie(h.cookie.refreshCookie(pair.RefreshToken, pair.RefreshExpiresAt))
	l.Info("login successful", "deviceId", pair.DeviceID)
	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: pair.AccessToken,
		ExpiresAt:   pair.AccessExpiresAt,
	})
}

// Refresh rotates the refresh token and returns a new access token. Any
// rejected rotation clears the cookie; a revoked device must not keep
// replaying a dead token.
func (h *SessionHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.From(ctx).With("handler", "session_refresh")

	claims, ok := middleware.GetRefreshClaims(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid credentials")
	}

	pair, err := h.svc.Refresh(ctx, claims, c.RealIP())
	if err != nil {
		httpErr := h.mapError(l, claims.DeviceID, err)
		// Clear the cookie only when the token itself was rejected. A
		// transient failure must not log the device out client-side.
		var he *echo.HTTPError
		if errors.As(httpErr, &he) && he.Code == http.StatusUnauthorized {
			c.SetCookie(h.cookie.clearCookie())
		}
		return httpErr
	}

	c.SetCookie(h.cookie.refreshCookie(pair.RefreshToken, pair.RefreshExpiresAt))
	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: pair.AccessToken,
		ExpiresAt:   pair.AccessExpiresAt,
	})
}

// Logout revokes the current session and clears the cookie. The cookie is
// cleared even when revocation fails.
func (h *SessionHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.From(ctx).With("handler", "session_logout")

	claims, ok := middleware.GetRefreshClaims(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid credentials")
	}

	err := h.svc.Logout(ctx, claims, c.RealIP())
	c.SetCookie(h.cookie.clearCookie())
	if err != nil {
		return h.mapError(l, claims.DeviceID, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// ListDevices returns the caller's active sessions.
func (h *SessionHTTP) ListDevices(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.From(ctx).With("handler", "device_list")

	claims, ok := middleware.GetRefreshClaims(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid credentials")
	}

	sessions, err := h.svc.ListDevices(ctx, claims)
	if err != nil {
		return h.mapError(l, claims.DeviceID, err)
	}

	out := make([]deviceResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, deviceResponse{
			DeviceID:       s.DeviceID,
			Title:          s.Title,
			IP:             s.IP,
			LastActiveDate: time.Unix(s.LastActiveDate, 0).UTC(),
			ExpirationDate: s.ExpirationDate,
			CreatedAt:      s.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"devices": out})
}

// TerminateDevice revokes one of the caller's other sessions.
func (h *SessionHTTP) TerminateDevice(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.From(ctx).With("handler", "device_terminate")

	claims, ok := middleware.GetRefreshClaims(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid credentials")
	}

	targetDeviceID := c.Param("deviceId")
	if targetDeviceID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing device id")
	}

	if err := h.svc.TerminateDevice(ctx, claims, targetDeviceID, c.RealIP()); err != nil {
		return h.mapError(l, claims.DeviceID, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// TerminateAllOther revokes every session of the caller except the current one.
func (h *SessionHTTP) TerminateAllOther(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.From(ctx).With("handler", "device_terminate_all")

	claims, ok := middleware.GetRefreshClaims(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid credentials")
	}

	if err := h.svc.TerminateAllOther(ctx, claims, c.RealIP()); err != nil {
		return h.mapError(l, claims.DeviceID, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// mapError translates service sentinels to HTTP status codes. Every
// session-validation failure collapses into the same 401 body; the reason is
// only visible in logs.
func (h *SessionHTTP) mapError(l *slog.Logger, deviceID string, err error) error {
	switch {
	case errors.Is(err, service.ErrNoSession),
		errors.Is(err, service.ErrWrongUser),
		errors.Is(err, service.ErrSessionExpired),
		errors.Is(err, service.ErrStaleToken):
		l.Warn("session rejected", "deviceId", deviceID, "reason", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid credentials")
	case errors.Is(err, service.ErrReuseDetected):
		l.Warn("refresh token reuse detected", "deviceId", deviceID)
		return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid credentials")
	case errors.Is(err, service.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "device not found")
	default:
		l.Error("session operation failed", "deviceId", deviceID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
