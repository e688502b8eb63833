package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"blog-platform/backend/internal/security"
)

const bearerPrefix = "bearer "

// unauthorized is the single response body for every rejected token. Missing,
// malformed, expired, and forged tokens are indistinguishable to the client.
func unauthorized() error {
	return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid credentials")
}

// RequireAccessToken returns echo middleware that validates the Bearer access
// token from the Authorization header and sets the user id in the request
// context.
func RequireAccessToken(access *security.Signer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractBearer(c.Request().Header.Get(echo.HeaderAuthorization))
			if token == "" {
				return unauthorized()
			}
			claims, err := access.Verify(token)
			if err != nil {
				return unauthorized()
			}
			req := c.Request()
			c.SetRequest(req.WithContext(WithUserID(req.Context(), claims.UserID)))
			return next(c)
		}
	}
}

// RequireRefreshCookie returns echo middleware that validates the refresh
// token cookie and sets the verified claims in the request context. The
// deviceId claim must be present; an access token smuggled into the cookie
// fails here even though both families are HS256.
func RequireRefreshCookie(refresh *security.Signer, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return unauthorized()
			}
			claims, err := refresh.Verify(cookie.Value)
			if err != nil {
				return unauthorized()
			}
			if claims.DeviceID == "" {
				return unauthorized()
			}
			req := c.Request()
			c.SetRequest(req.WithContext(WithRefreshClaims(req.Context(), claims)))
			return next(c)
		}
	}
}

// extractBearer returns the Bearer token from the Authorization header value,
// or "" if missing or malformed.
func extractBearer(header string) string {
	v := strings.TrimSpace(header)
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
