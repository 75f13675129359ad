// Command server runs the Sports Hub API.
//
// Configuration comes from the environment (and an optional .env file in
// the working directory); see internal/config for every key.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/sakif/sportshub/internal/auth"
	"github.com/sakif/sportshub/internal/config"
	"github.com/sakif/sportshub/internal/repository"
	"github.com/sakif/sportshub/internal/repository/memory"
	"github.com/sakif/sportshub/internal/repository/sqlstore"
	"github.com/sakif/sportshub/internal/server"
)

const defaultAdminPassword = "admin123"

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		slog.Error("loading configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	if cfg.SessionSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return err
		}
		cfg.SessionSecret = secret
		logger.Warn("SESSION_SECRET not set; using a random secret, sessions will not survive a restart")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	if cfg.SeedData {
		if err := seed(ctx, cfg, store, logger); err != nil {
			store.Close()
			return err
		}
	}

	srv, err := server.New(cfg, store, logger)
	if err != nil {
		store.Close()
		return err
	}
	return srv.Start()
}

// openStore builds the backend named by STORE_DRIVER.
func openStore(ctx context.Context, cfg config.Config) (repository.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return memory.New(), nil

	case config.DriverSQLite:
		if cfg.DatabaseURL != ":memory:" {
			// Like `mkdir -p`; a no-op when the directory exists.
			if err := os.MkdirAll(filepath.Dir(cfg.DatabaseURL), 0o755); err != nil {
				return nil, fmt.Errorf("creating data directory: %w", err)
			}
		}
		return sqlstore.Open(ctx, sqlstore.DriverSQLite, cfg.DatabaseURL)

	case config.DriverPostgres:
		return sqlstore.Open(ctx, sqlstore.DriverPostgres, cfg.DatabaseURL)
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func seed(ctx context.Context, cfg config.Config, store repository.Store, logger *slog.Logger) error {
	if cfg.AdminPassword == defaultAdminPassword {
		logger.Warn("ADMIN_PASSWORD is the default; change it before exposing the server")
	}

	hash, err := auth.NewPasswordService().Hash(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	admin := repository.SeedAdmin{
		Username:     cfg.AdminUsername,
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
	}
	if err := repository.Seed(ctx, store, admin, time.Now(), logger); err != nil {
		return err
	}
	logger.Info("seed data ensured", slog.String("admin", cfg.AdminUsername))
	return nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
