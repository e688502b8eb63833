// Package server assembles the echo instance: middleware chain, route
// registration, and the health endpoint.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	identityhandler "blog-platform/backend/internal/identity/handler"
	identityrepo "blog-platform/backend/internal/identity/repository"
	"blog-platform/backend/internal/security"
	"blog-platform/backend/internal/server/middleware"
	sessionhandler "blog-platform/backend/internal/session/handler"
)

// Pinger is the health check's view of the database.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps holds everything the HTTP server needs wired in.
type Deps struct {
	Sessions      sessionhandler.SessionManager
	Users         identityrepo.Repository
	AccessSigner  *security.Signer
	RefreshSigner *security.Signer
	Cookie        sessionhandler.CookieConfig
	// DB is used by the readiness endpoint; may be nil in tests.
	DB Pinger
}

// New builds the echo instance with the full middleware chain and all routes
// registered.
func New(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Telemetry())

	refreshGuard := middleware.RequireRefreshCookie(deps.RefreshSigner, deps.Cookie.Name)
	accessGuard := middleware.RequireAccessToken(deps.AccessSigner)

	sessionhandler.NewSessionHTTP(deps.Sessions, deps.Cookie).Register(e, refreshGuard)
	identityhandler.NewIdentityHTTP(deps.Users).Register(e, accessGuard)

	e.GET("/healthz", healthHandler(deps.DB))

	return e
}

// healthHandler reports liveness, and readiness when a database is attached.
func healthHandler(db Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded"})
			}
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	}
}
