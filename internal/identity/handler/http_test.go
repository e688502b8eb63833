package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"blog-platform/backend/internal/identity/domain"
	"blog-platform/backend/internal/server/middleware"
)

type memUserRepo struct {
	byID map[string]*domain.User
}

func (r *memUserRepo) GetByLoginOrEmail(_ context.Context, _ string) (*domain.User, error) {
	return nil, nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	return r.byID[id], nil
}

func runMe(t *testing.T, repo *memUserRepo, userID string) (int, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	if userID != "" {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := NewIdentityHTTP(repo).Me(c)
	if err != nil {
		var he *echo.HTTPError
		if !errors.As(err, &he) {
			t.Fatalf("expected HTTPError, got %v", err)
		}
		return he.Code, rec
	}
	return rec.Code, rec
}

func TestMeReturnsProfile(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	repo := &memUserRepo{byID: map[string]*domain.User{
		"user-1": {ID: "user-1", Login: "alice", Email: "alice@example.com", PasswordHash: "x", CreatedAt: created},
	}}
	code, rec := runMe(t, repo, "user-1")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	var resp profileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.ID != "user-1" || resp.Login != "alice" || resp.Email != "alice@example.com" {
		t.Errorf("unexpected profile %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("password hash leaked in response")
	}
}

func TestMeUnknownUser(t *testing.T) {
	code, _ := runMe(t, &memUserRepo{byID: map[string]*domain.User{}}, "user-ghost")
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestMeWithoutIdentity(t *testing.T) {
	code, _ := runMe(t, &memUserRepo{byID: map[string]*domain.User{}}, "")
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}
