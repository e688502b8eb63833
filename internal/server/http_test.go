package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	identitydomain "blog-platform/backend/internal/identity/domain"
	"blog-platform/backend/internal/security"
	"blog-platform/backend/internal/session/domain"
	sessionhandler "blog-platform/backend/internal/session/handler"
	"blog-platform/backend/internal/session/service"
)

type stubSessions struct {
	pair *service.TokenPair
	err  error
}

func (s *stubSessions) Login(context.Context, string, string, string, string) (*service.TokenPair, error) {
	return s.pair, s.err
}

func (s *stubSessions) Refresh(context.Context, *security.Claims, string) (*service.TokenPair, error) {
	return s.pair, s.err
}

func (s *stubSessions) Logout(context.Context, *security.Claims, string) error { return s.err }

func (s *stubSessions) ListDevices(context.Context, *security.Claims) ([]*domain.DeviceSession, error) {
	return nil, s.err
}

func (s *stubSessions) TerminateDevice(context.Context, *security.Claims, string, string) error {
	return s.err
}

func (s *stubSessions) TerminateAllOther(context.Context, *security.Claims, string) error {
	return s.err
}

type stubUsers struct{ user *identitydomain.User }

func (s *stubUsers) GetByLoginOrEmail(context.Context, string) (*identitydomain.User, error) {
	return s.user, nil
}

func (s *stubUsers) GetByID(context.Context, string) (*identitydomain.User, error) {
	return s.user, nil
}

type stubPinger struct{ err error }

func (p *stubPinger) PingContext(context.Context) error { return p.err }

var (
	accessSecret  = []byte("access-secret-for-tests-0123456789ab")
	refreshSecret = []byte("refresh-secret-for-tests-0123456789a")
)

func newTestServer(sessions *stubSessions, db Pinger) http.Handler {
	return New(Deps{
		Sessions:      sessions,
		Users:         &stubUsers{user: &identitydomain.User{ID: "user-1", Login: "alice", Email: "alice@example.com"}},
		AccessSigner:  security.NewSigner(accessSecret, 15*time.Minute),
		RefreshSigner: security.NewSigner(refreshSecret, time.Hour),
		Cookie:        sessionhandler.CookieConfig{Name: "refreshToken", Path: "/api", Secure: true},
		DB:            db,
	})
}

func TestRoutesRequireRefreshCookie(t *testing.T) {
	srv := newTestServer(&stubSessions{err: errors.New("must not be called")}, nil)

	for _, tt := range []struct{ method, path string }{
		{http.MethodPost, "/api/auth/refresh-token"},
		{http.MethodPost, "/api/auth/logout"},
		{http.MethodGet, "/api/security/devices"},
		{http.MethodDelete, "/api/security/devices/device-2"},
		{http.MethodDelete, "/api/security/devices"},
	} {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without cookie: expected 401, got %d", tt.method, tt.path, rec.Code)
		}
	}
}

func TestLoginThenRefreshThroughRouter(t *testing.T) {
	refresh := security.NewSigner(refreshSecret, time.Hour)
	token, _, exp, err := refresh.Issue("user-1", "device-1")
	if err != nil {
		t.Fatal(err)
	}
	pair := &service.TokenPair{
		UserID:           "user-1",
		DeviceID:         "device-1",
		AccessToken:      "access-token",
		AccessExpiresAt:  time.Now().Add(15 * time.Minute),
		RefreshToken:     token,
		RefreshExpiresAt: exp,
	}
	srv := newTestServer(&stubSessions{pair: pair}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"login":"alice","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var cookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "refreshToken" {
			cookie = ck
		}
	}
	if cookie == nil {
		t.Fatal("login did not set the refresh cookie")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/auth/refresh-token", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestMeRequiresBearer(t *testing.T) {
	srv := newTestServer(&stubSessions{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without bearer, got %d", rec.Code)
	}

	token, _, _, err := security.NewSigner(accessSecret, time.Minute).Issue("user-1", "")
	if err != nil {
		t.Fatal(err)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with bearer, got %d (%s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "alice") {
		t.Errorf("profile missing from body: %s", rec.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(&stubSessions{}, &stubPinger{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	srv = newTestServer(&stubSessions{}, &stubPinger{err: errors.New("db down")})
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when db is down, got %d", rec.Code)
	}
}
