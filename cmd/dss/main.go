package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Nakkasenp65/device-assessment-dss/internal/api"
	"github.com/Nakkasenp65/device-assessment-dss/internal/cache"
	"github.com/Nakkasenp65/device-assessment-dss/internal/config"
	"github.com/Nakkasenp65/device-assessment-dss/internal/hermes"
	"github.com/Nakkasenp65/device-assessment-dss/internal/metrics"
	"github.com/Nakkasenp65/device-assessment-dss/internal/scoring"
	"github.com/Nakkasenp65/device-assessment-dss/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(os.Stdout, cfg.Logging)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New(prometheus.DefaultRegisterer)

	// Store: a YAML catalog runs fully in memory, otherwise Postgres.
	var db store.Store
	if cfg.Catalog.Path != "" {
		mem, err := store.LoadCatalogFile(cfg.Catalog.Path)
		if err != nil {
			logger.Error("failed to load catalog", "path", cfg.Catalog.Path, "error", err)
			os.Exit(1)
		}
		db = mem
		logger.Info("loaded catalog", "path", cfg.Catalog.Path)
	} else {
		pg, err := store.NewPostgresStore(ctx, cfg.Database.URL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		db = pg
		logger.Info("connected to database")
	}
	defer db.Close()

	// Redis catalog cache (optional)
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			logger.Warn("failed to connect to redis, running without cache", "error", err)
		} else {
			defer rdb.Close()
			db = cache.New(db, rdb, cfg.CacheTTL(), m, logger)
			logger.Info("catalog cache enabled", "ttl", cfg.CacheTTL())
		}
	}

	// Hermes (optional)
	var hermesClient hermes.Client
	if cfg.NATS.URL != "" {
		hc, err := hermes.NewNATSClient(ctx, cfg.NATS.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to hermes, running without events", "error", err)
		} else {
			hermesClient = hc
			defer hc.Close()
			logger.Info("connected to hermes")
		}
	}

	engine := scoring.NewEngine(db, logger, scoring.WithStrictReferences(cfg.Scoring.StrictReferences))

	// API server
	router := api.NewRouter(db, engine, hermesClient, m, cfg, logger)
	apiServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler:           api.NewMetricsRouter(prometheus.DefaultGatherer),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port, "strict_references", cfg.Scoring.StrictReferences)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}

func newLogger(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
