package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"blog-platform/backend/internal/logging"
)

// RequestLogger returns echo middleware that attaches a request-scoped logger
// to the context and logs every completed request with its status and
// duration. Each request gets a generated request id.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			requestID := uuid.NewString()

			l := logging.From(req.Context()).With(
				"requestId", requestID,
				"method", req.Method,
				"path", req.URL.Path,
			)
			c.SetRequest(req.WithContext(logging.Into(req.Context(), l)))
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			l.Info("request completed",
				"status", status,
				"durationMs", time.Since(start).Milliseconds(),
			)
			return err
		}
	}
}
