package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envVars = []string{
	"DSS_PORT", "DSS_METRICS_PORT", "DSS_ADMIN_TOKEN", "DSS_DATABASE_URL",
	"DSS_CATALOG_PATH", "DSS_NATS_URL", "DSS_REDIS_ADDR", "DSS_REDIS_PASSWORD",
	"DSS_CACHE_TTL_SECONDS", "DSS_STRICT_REFERENCES", "DSS_LOG_LEVEL", "DSS_LOG_FORMAT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8700 {
		t.Errorf("expected port 8700, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("expected metrics port 8701, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Server.RateLimitPerMinute != 120 {
		t.Errorf("expected rate limit 120, got %d", cfg.Server.RateLimitPerMinute)
	}
	if cfg.NATS.URL != "" {
		t.Errorf("expected events disabled by default, got %s", cfg.NATS.URL)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("expected cache disabled by default, got %s", cfg.Redis.Addr)
	}
	if cfg.CacheTTL() != 5*time.Minute {
		t.Errorf("expected CacheTTL 5m, got %v", cfg.CacheTTL())
	}
	if cfg.Scoring.StrictReferences {
		t.Error("expected tolerant references by default")
	}
	if cfg.Scoring.ConsistencyThreshold != 0.1 {
		t.Errorf("expected consistency threshold 0.1, got %f", cfg.Scoring.ConsistencyThreshold)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got '%s'", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected log format 'json', got '%s'", cfg.Logging.Format)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DSS_PORT", "9000")
	t.Setenv("DSS_METRICS_PORT", "9001")
	t.Setenv("DSS_ADMIN_TOKEN", "secret-token")
	t.Setenv("DSS_DATABASE_URL", "postgres://localhost/dss_test")
	t.Setenv("DSS_CATALOG_PATH", "/etc/dss/catalog.yaml")
	t.Setenv("DSS_NATS_URL", "nats://nats:4222")
	t.Setenv("DSS_REDIS_ADDR", "redis:6379")
	t.Setenv("DSS_REDIS_PASSWORD", "hunter2")
	t.Setenv("DSS_CACHE_TTL_SECONDS", "60")
	t.Setenv("DSS_STRICT_REFERENCES", "true")
	t.Setenv("DSS_LOG_LEVEL", "debug")
	t.Setenv("DSS_LOG_FORMAT", "text")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 9001 {
		t.Errorf("expected metrics port 9001, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Server.AdminToken != "secret-token" {
		t.Errorf("expected admin token 'secret-token', got '%s'", cfg.Server.AdminToken)
	}
	if cfg.Database.URL != "postgres://localhost/dss_test" {
		t.Errorf("expected database URL, got '%s'", cfg.Database.URL)
	}
	if cfg.Catalog.Path != "/etc/dss/catalog.yaml" {
		t.Errorf("expected catalog path, got '%s'", cfg.Catalog.Path)
	}
	if cfg.NATS.URL != "nats://nats:4222" {
		t.Errorf("expected nats URL, got '%s'", cfg.NATS.URL)
	}
	if cfg.Redis.Addr != "redis:6379" || cfg.Redis.Password != "hunter2" {
		t.Errorf("unexpected redis config %+v", cfg.Redis)
	}
	if cfg.CacheTTL() != time.Minute {
		t.Errorf("expected CacheTTL 1m, got %v", cfg.CacheTTL())
	}
	if !cfg.Scoring.StrictReferences {
		t.Error("expected strict references")
	}
	if cfg.Logging.SlogLevel() != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.Logging.SlogLevel())
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("expected text format, got '%s'", cfg.Logging.Format)
	}
}

func TestLoadIgnoresMalformedEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DSS_PORT", "not-a-port")
	t.Setenv("DSS_STRICT_REFERENCES", "maybe")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8700 {
		t.Errorf("malformed DSS_PORT should keep default, got %d", cfg.Server.Port)
	}
	if cfg.Scoring.StrictReferences {
		t.Error("malformed DSS_STRICT_REFERENCES should keep default")
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "dss.yaml")
	data := `
server:
  port: 8080
  admin_token: file-token
catalog:
  path: ./catalog.yaml
scoring:
  strict_references: true
  consistency_threshold: 0.08
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DSS_PORT", "8081")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8081 {
		t.Errorf("env should override file, got port %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("unset keys keep defaults, got metrics port %d", cfg.Server.MetricsPort)
	}
	if cfg.Server.AdminToken != "file-token" {
		t.Errorf("expected file admin token, got %q", cfg.Server.AdminToken)
	}
	if cfg.Catalog.Path != "./catalog.yaml" {
		t.Errorf("expected catalog path from file, got %q", cfg.Catalog.Path)
	}
	if !cfg.Scoring.StrictReferences || cfg.Scoring.ConsistencyThreshold != 0.08 {
		t.Errorf("unexpected scoring config %+v", cfg.Scoring)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	base := func() *Config {
		cfg, err := Load("")
		if err != nil {
			t.Fatal(err)
		}
		cfg.Database.URL = "postgres://localhost/dss"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"catalog instead of database", func(c *Config) { c.Database.URL = ""; c.Catalog.Path = "c.yaml" }, ""},
		{"no backing store", func(c *Config) { c.Database.URL = "" }, "database.url or catalog.path"},
		{"same ports", func(c *Config) { c.Server.MetricsPort = c.Server.Port }, "must differ"},
		{"zero threshold", func(c *Config) { c.Scoring.ConsistencyThreshold = 0 }, "consistency_threshold"},
		{"redis without ttl", func(c *Config) { c.Redis.Addr = "localhost:6379"; c.Redis.CacheTTLSeconds = 0 }, "cache_ttl_seconds"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := (LoggingConfig{Level: in}).SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
