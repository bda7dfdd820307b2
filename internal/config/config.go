package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	NATS     NATSConfig     `yaml:"nats"`
	Redis    RedisConfig    `yaml:"redis"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port               int    `yaml:"port"`
	MetricsPort        int    `yaml:"metrics_port"`
	AdminToken         string `yaml:"admin_token"`
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// CatalogConfig points at a YAML catalog. When set, the service runs on the
// in-memory store instead of Postgres.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

type NATSConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	Addr            string `yaml:"addr"`
	Password        string `yaml:"password"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
}

type ScoringConfig struct {
	StrictReferences     bool    `yaml:"strict_references"`
	ConsistencyThreshold float64 `yaml:"consistency_threshold"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Redis.CacheTTLSeconds) * time.Second
}

// SlogLevel maps the configured level name to a slog.Level. Unknown names
// fall back to info.
func (c LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
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

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:               8700,
			MetricsPort:        8701,
			RateLimitPerMinute: 120,
		},
		Redis: RedisConfig{
			CacheTTLSeconds: 300,
		},
		Scoring: ScoringConfig{
			StrictReferences:     false,
			ConsistencyThreshold: 0.1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

// Validate reports configuration that would stop the service from serving.
func (c *Config) Validate() error {
	var errs []error
	if c.Database.URL == "" && c.Catalog.Path == "" {
		errs = append(errs, errors.New("one of database.url or catalog.path is required"))
	}
	if c.Server.Port <= 0 || c.Server.MetricsPort <= 0 {
		errs = append(errs, errors.New("server ports must be positive"))
	}
	if c.Server.Port == c.Server.MetricsPort {
		errs = append(errs, errors.New("server.port and server.metrics_port must differ"))
	}
	if c.Server.RateLimitPerMinute <= 0 {
		errs = append(errs, errors.New("server.rate_limit_per_minute must be positive"))
	}
	if c.Scoring.ConsistencyThreshold <= 0 {
		errs = append(errs, errors.New("scoring.consistency_threshold must be positive"))
	}
	if c.Redis.Addr != "" && c.Redis.CacheTTLSeconds <= 0 {
		errs = append(errs, errors.New("redis.cache_ttl_seconds must be positive when redis is enabled"))
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q: want json or text", c.Logging.Format))
	}
	return errors.Join(errs...)
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DSS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("DSS_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("DSS_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("DSS_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("DSS_CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv("DSS_NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("DSS_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("DSS_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("DSS_CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Redis.CacheTTLSeconds = n
		}
	}
	if v := os.Getenv("DSS_STRICT_REFERENCES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Scoring.StrictReferences = b
		}
	}
	if v := os.Getenv("DSS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("DSS_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
