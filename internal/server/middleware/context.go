// Package middleware holds the echo middleware for the HTTP server: token
// guards, request telemetry, and the context carriers they populate.
package middleware

import (
	"context"

	"blog-platform/backend/internal/security"
)

type contextKey struct{ name string }

var (
	userIDKey        = contextKey{"user_id"}
	refreshClaimsKey = contextKey{"refresh_claims"}
)

// WithUserID returns a context carrying the authenticated user id.
// Handlers behind the access guard read it via GetUserID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID returns the user id from context and true if set; otherwise "", false.
func GetUserID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(userIDKey).(string)
	return v, ok
}

// WithRefreshClaims returns a context carrying the verified refresh token
// claims. Handlers behind the refresh guard read them via GetRefreshClaims.
func WithRefreshClaims(ctx context.Context, claims *security.Claims) context.Context {
	return context.WithValue(ctx, refreshClaimsKey, claims)
}

// GetRefreshClaims returns the refresh claims from context and true if set; otherwise nil, false.
func GetRefreshClaims(ctx context.Context) (*security.Claims, bool) {
	v, ok := ctx.Value(refreshClaimsKey).(*security.Claims)
	return v, ok
}
