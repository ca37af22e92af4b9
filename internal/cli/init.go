// Package cli holds the startup steps of the giftguardian binary.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"giftguardian/internal/config"
	applog "giftguardian/internal/log"
	"giftguardian/internal/storage"
	"giftguardian/internal/uploads"
)

// LoadEnvFile loads the .env file for local development.
// A missing file is ignored.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the application logger from the configured level and
// format and installs it as the slog default.
func SetupLogger(cfg *config.Config) *applog.Logger {
	c := applog.DefaultConfig()
	c.Level = applog.ParseLevel(cfg.LogLevel)
	c.Format = cfg.LogFormat
	logger := applog.New(c)
	applog.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and exits on validation failure.
// Config errors are reported with a bootstrap logger since the configured
// one cannot be built yet.
func LoadAndValidateConfig() *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		applog.New(applog.DefaultConfig()).Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitStore opens the SQLite database and applies migrations.
func InitStore(logger *applog.Logger, dbPath string) *storage.SQLiteRepository {
	store, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", applog.FieldError, err, "path", dbPath)
		os.Exit(1)
	}
	return store
}

// InitImageStore prepares the uploaded image directory.
func InitImageStore(logger *applog.Logger, dir string) *uploads.ImageStore {
	images, err := uploads.NewImageStore(dir)
	if err != nil {
		logger.Error("Failed to initialize image store", applog.FieldError, err, "path", dir)
		os.Exit(1)
	}
	return images
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
