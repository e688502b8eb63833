// seed inserts a development user for local testing.
// Idempotent: skips when the dev user already exists.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"blog-platform/backend/internal/config"
	"blog-platform/backend/internal/db"
	identityrepo "blog-platform/backend/internal/identity/repository"
	"blog-platform/backend/internal/security"
)

const (
	devLogin    = "dev"
	devEmail    = "dev@example.com"
	devPassword = "password123"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
		os.Exit(1)
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		slog.Error("db", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	ctx := context.Background()
	users := identityrepo.NewPostgresRepository(conn)

	existing, err := users.GetByLoginOrEmail(ctx, devEmail)
	if err != nil {
		slog.Error("seed check", "error", err)
		os.Exit(1)
	}
	if existing != nil {
		slog.Info("seed already applied, skipping", "email", devEmail)
		return
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	passwordHash, err := hasher.Hash([]byte(devPassword))
	if err != nil {
		slog.Error("hash password", "error", err)
		os.Exit(1)
	}

	const query = `
        INSERT INTO users (id, login, email, password_hash, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `
	if _, err := conn.ExecContext(ctx, query,
		uuid.NewString(), devLogin, devEmail, passwordHash, time.Now().UTC(),
	); err != nil {
		slog.Error("create dev user", "error", err)
		os.Exit(1)
	}

	slog.Info("seed completed", "login", devLogin, "email", devEmail, "password", devPassword)
}
