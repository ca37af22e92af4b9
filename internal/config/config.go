package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	dbFileName   = "giftguardian.db"
	imagesSubdir = "images"
)

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"text", "json", "tint"}
)

type Config struct {
	// HTTP Server
	Port            string
	ShutdownTimeout time.Duration

	// Storage
	DataDir     string
	MaxUploadMB int

	// Reverse proxy
	IngressHeader string

	// Logging
	LogLevel  string
	LogFormat string

	// Request limits
	RateLimitPerMinute int

	// Presentation
	CurrencySymbol string

	// ConfigFile is the optional YAML file read before the environment.
	ConfigFile string

	loadErr error
}

// Load reads the configuration. Environment variables win over the optional
// YAML file named by CONFIG_FILE, which wins over the defaults. Problems
// reading the file are reported by Validate.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("port", "8099")
	v.SetDefault("shutdown_timeout", 15*time.Second)
	v.SetDefault("data_dir", "./data")
	v.SetDefault("max_upload_mb", 16)
	v.SetDefault("ingress_header", "X-Ingress-Path")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("rate_limit_per_minute", 120)
	v.SetDefault("currency_symbol", "€")

	cfg := &Config{ConfigFile: os.Getenv("CONFIG_FILE")}
	if cfg.ConfigFile != "" {
		v.SetConfigFile(cfg.ConfigFile)
		v.SetConfigType("yml")
		if err := v.ReadInConfig(); err != nil {
			cfg.loadErr = fmt.Errorf("read config file '%s': %w", cfg.ConfigFile, err)
		}
	}

	cfg.Port = v.GetString("port")
	cfg.ShutdownTimeout = v.GetDuration("shutdown_timeout")
	cfg.DataDir = v.GetString("data_dir")
	cfg.MaxUploadMB = v.GetInt("max_upload_mb")
	cfg.IngressHeader = v.GetString("ingress_header")
	cfg.LogLevel = strings.ToLower(v.GetString("log_level"))
	cfg.LogFormat = strings.ToLower(v.GetString("log_format"))
	cfg.RateLimitPerMinute = v.GetInt("rate_limit_per_minute")
	cfg.CurrencySymbol = v.GetString("currency_symbol")

	return cfg
}

// DBPath is the SQLite file inside the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, dbFileName)
}

// ImagesDir holds uploaded gift images.
func (c *Config) ImagesDir() string {
	return filepath.Join(c.DataDir, imagesSubdir)
}

// MaxUploadBytes is the request body limit for multipart forms.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if c.loadErr != nil {
		errors = append(errors, c.loadErr.Error())
	}

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DataDir == "" {
		errors = append(errors, "data directory cannot be empty")
	} else if err := os.MkdirAll(c.ImagesDir(), 0755); err != nil {
		errors = append(errors, fmt.Sprintf("cannot create data directory '%s': %v", c.DataDir, err))
	}

	if c.IngressHeader == "" {
		errors = append(errors, "ingress header name cannot be empty")
	}

	if !slices.Contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLogLevels))
	}
	if !slices.Contains(validLogFormats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be one of %v", c.LogFormat, validLogFormats))
	}

	if c.MaxUploadMB < 1 || c.MaxUploadMB > 1024 {
		errors = append(errors, fmt.Sprintf("invalid max upload size %d MB: must be between 1 and 1024", c.MaxUploadMB))
	}

	if c.RateLimitPerMinute < 0 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be 0 (disabled) or positive", c.RateLimitPerMinute))
	}

	if c.ShutdownTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	} else if c.ShutdownTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at most 5 minutes", c.ShutdownTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}
