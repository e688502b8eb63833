package handler

import (
	"net/http"
	"time"
)

// CookieConfig describes the refresh token cookie. Path should cover the auth
// and device-management routes and nothing wider, so the browser never sends
// the refresh token to content routes.
type CookieConfig struct {
	Name   string
	Path   string
	Domain string
	Secure bool
}

// refreshCookie builds the Set-Cookie for a freshly issued refresh token.
// HttpOnly and SameSite=Strict always; the token must be invisible to scripts
// and absent from cross-site requests.
func (cfg CookieConfig) refreshCookie(token string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.Name,
		Value:    token,
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// clearCookie builds the Set-Cookie that deletes the refresh token cookie.
func (cfg CookieConfig) clearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     cfg.Name,
		Value:    "",
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}
