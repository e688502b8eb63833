// server runs the blog backend HTTP API: auth, session, and device routes.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog-platform/backend/internal/audit"
	auditrepo "blog-platform/backend/internal/audit/repository"
	"blog-platform/backend/internal/config"
	"blog-platform/backend/internal/db"
	"blog-platform/backend/internal/events"
	identityrepo "blog-platform/backend/internal/identity/repository"
	identityservice "blog-platform/backend/internal/identity/service"
	"blog-platform/backend/internal/logging"
	"blog-platform/backend/internal/security"
	"blog-platform/backend/internal/server"
	sessionhandler "blog-platform/backend/internal/session/handler"
	sessionrepo "blog-platform/backend/internal/session/repository"
	sessionservice "blog-platform/backend/internal/session/service"
	"blog-platform/backend/internal/telemetry/otel"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Env)

	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
		os.Exit(1)
	}

	ctx := context.Background()

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "blog-backend", cfg.OTLPInsecure)
	if err != nil {
		slog.Error("telemetry", "error", err)
		os.Exit(1)
	}
	providers.SetGlobal()

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		slog.Error("db", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	accessSecret, err := security.LoadSecret(cfg.AccessTokenSecret)
	if err != nil {
		slog.Error("access token secret", "error", err)
		os.Exit(1)
	}
	refreshSecret, err := security.LoadSecret(cfg.RefreshTokenSecret)
	if err != nil {
		slog.Error("refresh token secret", "error", err)
		os.Exit(1)
	}
	accessSigner := security.NewSigner(accessSecret, cfg.AccessTTL())
	refreshSigner := security.NewSigner(refreshSecret, cfg.RefreshTTL())

	users := identityrepo.NewPostgresRepository(conn)
	sessions := sessionrepo.NewPostgresRepository(conn)
	validator := identityservice.NewValidator(users, security.NewHasher(cfg.BcryptCost))
	auditor := audit.NewLogger(auditrepo.NewPostgresRepository(conn))

	producer := events.NewKafkaProducer(cfg.KafkaBrokersList(), cfg.KafkaTopic)
	defer func() {
		if err := producer.Close(); err != nil {
			slog.Warn("kafka close", "error", err)
		}
	}()

	svc := sessionservice.NewSessionService(sessions, validator, accessSigner, refreshSigner, auditor, producer)

	e := server.New(server.Deps{
		Sessions:      svc,
		Users:         users,
		AccessSigner:  accessSigner,
		RefreshSigner: refreshSigner,
		Cookie: sessionhandler.CookieConfig{
			Name:   cfg.RefreshCookieName,
			Path:   cfg.RefreshCookiePath,
			Domain: cfg.RefreshCookieDomain,
			Secure: cfg.RefreshCookieSecure,
		},
		DB: conn,
	})

	go func() {
		slog.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("serve", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		slog.Error("telemetry shutdown", "error", err)
	}
	slog.Info("HTTP server stopped")
}
