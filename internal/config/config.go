// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FallbackTTL is the token lifetime used when a TTL string cannot be parsed.
// Deliberately short so a misconfigured deployment is noticed quickly instead
// of silently issuing long-lived tokens. A warning is logged on every fallback.
const FallbackTTL = 20 * time.Second

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// AccessTokenSecret is the HS256 signing secret for access tokens, inline or a file path.
	AccessTokenSecret string `mapstructure:"ACCESS_TOKEN_SECRET"`
	// RefreshTokenSecret is the HS256 signing secret for refresh tokens, inline or a file path.
	RefreshTokenSecret string `mapstructure:"REFRESH_TOKEN_SECRET"`
	// AccessTokenTTL is the access token lifetime as "<integer><unit>", unit in s/m/h/d (e.g. "15m").
	AccessTokenTTL string `mapstructure:"ACCESS_TOKEN_TTL"`
	// RefreshTokenTTL is the refresh token and device session lifetime (e.g. "7d").
	RefreshTokenTTL string `mapstructure:"REFRESH_TOKEN_TTL"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`

	// RefreshCookieName is the name of the HTTP-only cookie carrying the refresh token.
	RefreshCookieName string `mapstructure:"REFRESH_COOKIE_NAME"`
	// RefreshCookiePath scopes the refresh cookie. It must cover both the auth
	// and the device-management routes (default /api).
	RefreshCookiePath string `mapstructure:"REFRESH_COOKIE_PATH"`
	// RefreshCookieDomain is the optional cookie Domain attribute.
	RefreshCookieDomain string `mapstructure:"REFRESH_COOKIE_DOMAIN"`
	// RefreshCookieSecure sets the Secure attribute; disable only for local HTTP development.
	RefreshCookieSecure bool `mapstructure:"REFRESH_COOKIE_SECURE"`

	// OTLPEndpoint is the OTLP gRPC collector endpoint; empty disables telemetry export.
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext OTLP even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTLP_INSECURE"`

	// KafkaBrokers is a comma-separated broker list; empty disables session event publishing.
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// KafkaTopic is the topic session security events are published to.
	KafkaTopic string `mapstructure:"SESSION_EVENTS_KAFKA_TOPIC"`

	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("ACCESS_TOKEN_SECRET", "")
	v.SetDefault("REFRESH_TOKEN_SECRET", "")
	v.SetDefault("ACCESS_TOKEN_TTL", "15m")
	v.SetDefault("REFRESH_TOKEN_TTL", "7d")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("REFRESH_COOKIE_NAME", "refreshToken")
	v.SetDefault("REFRESH_COOKIE_PATH", "/api")
	v.SetDefault("REFRESH_COOKIE_DOMAIN", "")
	v.SetDefault("REFRESH_COOKIE_SECURE", true)
	v.SetDefault("OTLP_ENDPOINT", "")
	v.SetDefault("OTLP_INSECURE", false)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("SESSION_EVENTS_KAFKA_TOPIC", "blog-session-events")
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.RefreshCookieName == "" {
		return nil, errors.New("config: REFRESH_COOKIE_NAME must be set")
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	return &cfg, nil
}

// ParseTTL parses a "<integer><unit>" lifetime where unit is one of s, m, h, d.
// The "d" unit is days (24h); time.ParseDuration does not accept it.
func ParseTTL(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return 0, fmt.Errorf("config: invalid ttl %q", s)
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("config: invalid ttl %q", s)
	}
	switch s[len(s)-1] {
	case 's':
		return time.Duration(n) * time.Second, nil
	case 'm':
		return time.Duration(n) * time.Minute, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("config: invalid ttl unit in %q", s)
	}
}

// AccessTTL parses AccessTokenTTL. Falls back to FallbackTTL on unparseable
// input, logging a warning so a misconfiguration is visible to operators.
func (c *Config) AccessTTL() time.Duration {
	d, err := ParseTTL(c.AccessTokenTTL)
	if err != nil {
		slog.Warn("unparseable ACCESS_TOKEN_TTL, using fallback",
			"value", c.AccessTokenTTL, "fallback", FallbackTTL.String())
		return FallbackTTL
	}
	return d
}

// RefreshTTL parses RefreshTokenTTL with the same fallback behavior as AccessTTL.
func (c *Config) RefreshTTL() time.Duration {
	d, err := ParseTTL(c.RefreshTokenTTL)
	if err != nil {
		slog.Warn("unparseable REFRESH_TOKEN_TTL, using fallback",
			"value", c.RefreshTokenTTL, "fallback", FallbackTTL.String())
		return FallbackTTL
	}
	return d
}

// KafkaBrokersList returns broker addresses from the comma-separated config.
// Used to decide if event publishing is enabled (non-empty list) and to create the producer.
func (c *Config) KafkaBrokersList() []string {
	if c == nil || c.KafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.KafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
