package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Nakkasenp65/device-assessment-dss/internal/hermes"
	"github.com/Nakkasenp65/device-assessment-dss/internal/metrics"
	"github.com/Nakkasenp65/device-assessment-dss/internal/scoring"
	"github.com/Nakkasenp65/device-assessment-dss/internal/store"
)

type PathsHandler struct {
	store     store.Store
	hermes    hermes.Client
	metrics   *metrics.Metrics
	threshold float64
	logger    *slog.Logger
}

func NewPathsHandler(s store.Store, h hermes.Client, m *metrics.Metrics, threshold float64, logger *slog.Logger) *PathsHandler {
	return &PathsHandler{store: s, hermes: h, metrics: m, threshold: threshold, logger: logger}
}

type CreatePathRequest struct {
	Name                string                   `json:"name"`
	DescriptionTemplate string                   `json:"description_template,omitempty"`
	Weights             *scoring.PriorityWeights `json:"weights,omitempty"`
	ComparisonInput
}

type PathResponse struct {
	store.DecisionPath
	Consistency *scoring.ConsistencyReport `json:"consistency,omitempty"`
}

func (h *PathsHandler) List(w http.ResponseWriter, r *http.Request) {
	paths, err := h.store.ListDecisionPaths(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if paths == nil {
		paths = []store.DecisionPath{}
	}
	writeJSON(w, http.StatusOK, paths)
}

// Create adds a decision path. Weights are taken as given, or derived from a
// comparison matrix whose consistency ratio must not exceed the configured
// threshold.
// POST /api/v1/paths
func (h *PathsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePathRequest
	if err := decodeValid(r, pathSchema, &req); err != nil {
		writeError(w, err)
		return
	}

	var (
		weights scoring.PriorityWeights
		report  *scoring.ConsistencyReport
	)
	if req.Weights != nil {
		weights = *req.Weights
		if err := weights.Validate(); err != nil {
			writeError(w, &requestError{msg: err.Error()})
			return
		}
	} else {
		res, err := scoring.SolveAHP(req.comparisonMatrix())
		if err != nil {
			writeError(w, err)
			return
		}
		h.metrics.ObserveAHP(res.Consistency.IsConsistent)
		if res.Consistency.CR > h.threshold {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error":       fmt.Sprintf("comparison matrix is inconsistent: CR %.4f exceeds %.2f", res.Consistency.CR, h.threshold),
				"consistency": res.Consistency,
			})
			return
		}
		weights = res.Weights
		report = &res.Consistency
	}

	path := &store.DecisionPath{Name: req.Name, DescriptionTemplate: req.DescriptionTemplate}
	weights.Apply(path)
	if err := h.store.CreateDecisionPath(r.Context(), path); err != nil {
		h.logger.Error("create decision path failed", "name", req.Name, "error", err)
		writeError(w, err)
		return
	}

	if h.hermes != nil {
		ev := hermes.PathCreatedEvent{
			DecisionPathID:   path.ID,
			Name:             path.Name,
			WeightPhysical:   path.WeightPhysical,
			WeightFunctional: path.WeightFunctional,
			WeightAge:        path.WeightAge,
			Timestamp:        time.Now().UTC(),
		}
		if report != nil {
			cr := report.CR
			ev.ConsistencyRatio = &cr
		}
		if err := h.hermes.Publish(r.Context(), hermes.SubjectPathCreated(path.ID), ev); err != nil {
			h.logger.Warn("publish path created failed", "path_id", path.ID, "error", err)
		}
	}

	writeJSON(w, http.StatusCreated, PathResponse{DecisionPath: *path, Consistency: report})
}
