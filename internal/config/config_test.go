package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Port:               "8099",
		ShutdownTimeout:    15 * time.Second,
		DataDir:            t.TempDir(),
		MaxUploadMB:        16,
		IngressHeader:      "X-Ingress-Path",
		LogLevel:           "info",
		LogFormat:          "text",
		RateLimitPerMinute: 120,
		CurrencySymbol:     "€",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "rate limit disabled",
			mutate:  func(c *Config) { c.RateLimitPerMinute = 0 },
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "empty data dir",
			mutate:      func(c *Config) { c.DataDir = "" },
			wantErr:     true,
			errorString: "data directory cannot be empty",
		},
		{
			name:        "empty ingress header",
			mutate:      func(c *Config) { c.IngressHeader = "" },
			wantErr:     true,
			errorString: "ingress header name cannot be empty",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "verbose" },
			wantErr:     true,
			errorString: "invalid log level 'verbose'",
		},
		{
			name:        "invalid log format",
			mutate:      func(c *Config) { c.LogFormat = "xml" },
			wantErr:     true,
			errorString: "invalid log format 'xml'",
		},
		{
			name:        "upload limit too small",
			mutate:      func(c *Config) { c.MaxUploadMB = 0 },
			wantErr:     true,
			errorString: "invalid max upload size 0 MB",
		},
		{
			name:        "negative rate limit",
			mutate:      func(c *Config) { c.RateLimitPerMinute = -1 },
			wantErr:     true,
			errorString: "invalid rate limit -1",
		},
		{
			name:        "shutdown timeout too short",
			mutate:      func(c *Config) { c.ShutdownTimeout = 100 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid shutdown timeout 100ms",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.errorString)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig(t)
	cfg.Port = "x"
	cfg.LogLevel = "loud"
	cfg.MaxUploadMB = -5

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	if n := strings.Count(err.Error(), "\n- "); n != 3 {
		t.Errorf("Validate() reported %d problems, want 3:\n%v", n, err)
	}
}

func TestConfig_ValidateCreatesImagesDir(t *testing.T) {
	cfg := validConfig(t)
	cfg.DataDir = filepath.Join(t.TempDir(), "nested", "data")

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if _, err := os.Stat(cfg.ImagesDir()); err != nil {
		t.Errorf("images dir not created: %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, key := range []string{
			"PORT", "DATA_DIR", "INGRESS_HEADER", "LOG_LEVEL", "LOG_FORMAT",
			"MAX_UPLOAD_MB", "RATE_LIMIT_PER_MINUTE", "CURRENCY_SYMBOL", "SHUTDOWN_TIMEOUT", "CONFIG_FILE",
		} {
			t.Setenv(key, "")
		}

		cfg := Load()

		if cfg.Port != "8099" {
			t.Errorf("Port = %q, want 8099", cfg.Port)
		}
		if cfg.DataDir != "./data" {
			t.Errorf("DataDir = %q, want ./data", cfg.DataDir)
		}
		if cfg.IngressHeader != "X-Ingress-Path" {
			t.Errorf("IngressHeader = %q", cfg.IngressHeader)
		}
		if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
			t.Errorf("LogLevel/LogFormat = %q/%q", cfg.LogLevel, cfg.LogFormat)
		}
		if cfg.MaxUploadMB != 16 || cfg.RateLimitPerMinute != 120 {
			t.Errorf("MaxUploadMB/RateLimitPerMinute = %d/%d", cfg.MaxUploadMB, cfg.RateLimitPerMinute)
		}
		if cfg.CurrencySymbol != "€" {
			t.Errorf("CurrencySymbol = %q", cfg.CurrencySymbol)
		}
		if cfg.ShutdownTimeout != 15*time.Second {
			t.Errorf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
		}
		if got := cfg.DBPath(); got != filepath.Join("data", "giftguardian.db") {
			t.Errorf("DBPath() = %q", got)
		}
		if got := cfg.ImagesDir(); got != filepath.Join("data", "images") {
			t.Errorf("ImagesDir() = %q", got)
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", "")
		t.Setenv("PORT", "9090")
		t.Setenv("DATA_DIR", "/srv/gifts")
		t.Setenv("LOG_FORMAT", "JSON")
		t.Setenv("MAX_UPLOAD_MB", "4")
		t.Setenv("SHUTDOWN_TIMEOUT", "30s")
		t.Setenv("INGRESS_HEADER", "X-Forwarded-Prefix")

		cfg := Load()

		if cfg.Port != "9090" || cfg.DataDir != "/srv/gifts" {
			t.Errorf("Port/DataDir = %q/%q", cfg.Port, cfg.DataDir)
		}
		if cfg.LogFormat != "json" {
			t.Errorf("LogFormat = %q, want json", cfg.LogFormat)
		}
		if cfg.MaxUploadMB != 4 || cfg.MaxUploadBytes() != 4<<20 {
			t.Errorf("MaxUploadMB = %d", cfg.MaxUploadMB)
		}
		if cfg.ShutdownTimeout != 30*time.Second {
			t.Errorf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
		}
		if cfg.IngressHeader != "X-Forwarded-Prefix" {
			t.Errorf("IngressHeader = %q", cfg.IngressHeader)
		}
	})

	t.Run("config file below environment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "giftguardian.yml")
		content := "port: \"7000\"\ncurrency_symbol: \"$\"\nrate_limit_per_minute: 10\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		t.Setenv("CONFIG_FILE", path)
		t.Setenv("PORT", "7100")
		t.Setenv("CURRENCY_SYMBOL", "")
		t.Setenv("RATE_LIMIT_PER_MINUTE", "")

		cfg := Load()

		if cfg.Port != "7100" {
			t.Errorf("Port = %q, want env value 7100", cfg.Port)
		}
		if cfg.CurrencySymbol != "$" {
			t.Errorf("CurrencySymbol = %q, want file value $", cfg.CurrencySymbol)
		}
		if cfg.RateLimitPerMinute != 10 {
			t.Errorf("RateLimitPerMinute = %d, want 10", cfg.RateLimitPerMinute)
		}
	})

	t.Run("missing config file is a validation error", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yml"))
		t.Setenv("DATA_DIR", t.TempDir())

		err := Load().Validate()
		if err == nil || !strings.Contains(err.Error(), "read config file") {
			t.Errorf("Validate() error = %v, want config file error", err)
		}
	})
}
