// Package handler exposes the identity read endpoints used by logged-in
// clients.
package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"blog-platform/backend/internal/identity/repository"
	"blog-platform/backend/internal/logging"
	"blog-platform/backend/internal/server/middleware"
)

// IdentityHTTP serves the current-user profile.
type IdentityHTTP struct {
	users repository.Repository
}

// NewIdentityHTTP returns the identity handler set.
func NewIdentityHTTP(users repository.Repository) *IdentityHTTP {
	return &IdentityHTTP{users: users}
}

// Register mounts the identity routes. accessGuard must verify the Bearer
// access token and put the user id in the request context.
func (h *IdentityHTTP) Register(e *echo.Echo, accessGuard echo.MiddlewareFunc) {
	e.GET("/api/auth/me", h.Me, accessGuard)
}

type profileResponse struct {
	ID        string    `json:"id"`
	Login     string    `json:"login"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Me returns the profile of the authenticated user.
func (h *IdentityHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.From(ctx).With("handler", "identity_me")

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid credentials")
	}
	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		l.Error("load user", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if user == nil {
		// Token outlived the account.
		return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid credentials")
	}
	return c.JSON(http.StatusOK, profileResponse{
		ID:        user.ID,
		Login:     user.Login,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}
