// Package config loads server configuration from the environment.
//
// Values come from process environment variables, optionally seeded from a
// .env file (godotenv never overrides variables that are already set).
// envdecode maps variables onto the Config struct using `env` tags, which
// also carry the defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds every tunable of the server.
type Config struct {
	Port     int    `env:"PORT,default=8080"`
	LogLevel string `env:"LOG_LEVEL,default=info"`

	StoreDriver string `env:"STORE_DRIVER,default=memory"`
	DatabaseURL string `env:"DATABASE_URL,default=data/sportshub.db"`
	SeedData    bool   `env:"SEED_DATA,default=true"`

	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL,default=24h"`
	SecureCookies bool          `env:"SECURE_COOKIES,default=false"`
	SessionPrune  string        `env:"SESSION_PRUNE,default=@every 10m"`

	AdminUsername string `env:"ADMIN_USERNAME,default=admin"`
	AdminEmail    string `env:"ADMIN_EMAIL,default=admin@sportshub.local"`
	AdminPassword string `env:"ADMIN_PASSWORD,default=admin123"`

	NewsAPIURL  string        `env:"NEWS_API_URL,default=https://newsapi.org/v2"`
	NewsAPIKey  string        `env:"NEWS_API_KEY"`
	NewsTimeout time.Duration `env:"NEWS_TIMEOUT,default=5s"`

	AuthRatePerMinute int `env:"AUTH_RATE_PER_MINUTE,default=20"`
	AuthRateBurst     int `env:"AUTH_RATE_BURST,default=5"`

	// ReminderSweep is a cron spec ("@every 15m"); empty disables the sweep.
	ReminderSweep string `env:"REMINDER_SWEEP"`

	GitHubClientID     string `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `env:"GITHUB_CLIENT_SECRET"`
	GitHubCallbackURL  string `env:"GITHUB_CALLBACK_URL"`
}

// Load reads envFile (if it exists) and decodes the environment into a
// Config. Pass "" to skip the .env file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: loading %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("config: decoding environment: %w", err)
	}

	if cfg.GitHubCallbackURL == "" {
		cfg.GitHubCallbackURL = fmt.Sprintf("http://localhost:%d/auth/github/callback", cfg.Port)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverMemory, DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q (want memory, sqlite or postgres)", c.StoreDriver)
	}
	if c.StoreDriver != DriverMemory && c.DatabaseURL == "" {
		return fmt.Errorf("config: DATABASE_URL is required for STORE_DRIVER=%s", c.StoreDriver)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid PORT %d", c.Port)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: SESSION_TTL must be positive")
	}
	if c.NewsTimeout <= 0 {
		return fmt.Errorf("config: NEWS_TIMEOUT must be positive")
	}
	if c.AuthRatePerMinute <= 0 || c.AuthRateBurst <= 0 {
		return fmt.Errorf("config: AUTH_RATE_PER_MINUTE and AUTH_RATE_BURST must be positive")
	}
	return nil
}

// GitHubEnabled reports whether GitHub sign-in is configured.
func (c Config) GitHubEnabled() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != ""
}

// SlogLevel maps LOG_LEVEL onto a slog.Level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
