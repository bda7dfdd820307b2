package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Nakkasenp65/device-assessment-dss/internal/config"
	"github.com/Nakkasenp65/device-assessment-dss/internal/hermes"
	"github.com/Nakkasenp65/device-assessment-dss/internal/metrics"
	"github.com/Nakkasenp65/device-assessment-dss/internal/scoring"
	"github.com/Nakkasenp65/device-assessment-dss/internal/store"
)

func NewRouter(s store.Store, e *scoring.Engine, h hermes.Client, m *metrics.Metrics, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(cfg.Server.RateLimitPerMinute))

	assessments := NewAssessmentsHandler(s, e, h, m, logger)
	ahp := NewAHPHandler(m)
	paths := NewPathsHandler(s, h, m, cfg.Scoring.ConsistencyThreshold, logger)
	conditions := NewConditionsHandler(s)
	models := NewModelsHandler(s)
	feedback := NewFeedbackHandler(s)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/assessments", assessments.Create)
		r.Get("/assessments/{id}", assessments.Get)
		r.Post("/feedback", feedback.Create)

		r.Post("/ahp/calculate", ahp.Calculate)

		r.Get("/paths", paths.List)
		r.Get("/conditions", conditions.List)
		r.Get("/models", models.List)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.Server.AdminToken))
			r.Post("/paths", paths.Create)
		})
	})

	return r
}

func NewMetricsRouter(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
