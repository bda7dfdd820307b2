package api

import (
	"net/http"

	"github.com/Nakkasenp65/device-assessment-dss/internal/metrics"
	"github.com/Nakkasenp65/device-assessment-dss/internal/scoring"
)

// Judgments are the three upper-triangle pairwise comparisons, each on
// Saaty's 1/9..9 scale.
type Judgments struct {
	PhysicalFunctional float64 `json:"physical_functional"`
	PhysicalAge        float64 `json:"physical_age"`
	FunctionalAge      float64 `json:"functional_age"`
}

// ComparisonInput carries either a full pairwise matrix or the three
// judgments it is built from. A matrix takes precedence.
type ComparisonInput struct {
	Matrix    [][]float64 `json:"matrix,omitempty"`
	Judgments *Judgments  `json:"judgments,omitempty"`
}

func (in ComparisonInput) comparisonMatrix() [][]float64 {
	if in.Matrix != nil || in.Judgments == nil {
		return in.Matrix
	}
	j := in.Judgments
	return scoring.ReciprocalMatrix(j.PhysicalFunctional, j.PhysicalAge, j.FunctionalAge)
}

type AHPHandler struct {
	metrics *metrics.Metrics
}

func NewAHPHandler(m *metrics.Metrics) *AHPHandler {
	return &AHPHandler{metrics: m}
}

// Calculate solves a pairwise comparison matrix.
// POST /api/v1/ahp/calculate
func (h *AHPHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req ComparisonInput
	if err := decodeValid(r, ahpSchema, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := scoring.SolveAHP(req.comparisonMatrix())
	if err != nil {
		writeError(w, err)
		return
	}
	h.metrics.ObserveAHP(res.Consistency.IsConsistent)
	writeJSON(w, http.StatusOK, res)
}
