package api

import (
	"errors"
	"net/http"

	"github.com/Nakkasenp65/device-assessment-dss/internal/metrics"
	"github.com/Nakkasenp65/device-assessment-dss/internal/scoring"
	"github.com/Nakkasenp65/device-assessment-dss/internal/store"
)

// classify maps an engine or solver error to an HTTP status and the outcome
// label recorded on dss_assessments_total.
func classify(err error) (int, string) {
	var dangling *scoring.DanglingReferenceError
	var invalid *requestError
	switch {
	case errors.As(err, &invalid),
		errors.Is(err, scoring.ErrInvalidMatrixSize),
		errors.Is(err, scoring.ErrInvalidMatrixEntry),
		errors.Is(err, scoring.ErrUnsupportedMatrixSize):
		return http.StatusBadRequest, metrics.OutcomeInvalid
	case errors.Is(err, scoring.ErrModelNotFound):
		return http.StatusNotFound, metrics.OutcomeModelNotFound
	case errors.Is(err, store.ErrAssessmentNotFound):
		return http.StatusNotFound, metrics.OutcomeError
	case errors.As(err, &dangling):
		return http.StatusUnprocessableEntity, metrics.OutcomeDangling
	case errors.Is(err, scoring.ErrNoDecisionPaths):
		return http.StatusServiceUnavailable, metrics.OutcomeNotConfigured
	default:
		return http.StatusInternalServerError, metrics.OutcomeError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, _ := classify(err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
