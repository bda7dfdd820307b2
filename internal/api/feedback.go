package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Nakkasenp65/device-assessment-dss/internal/store"
)

type FeedbackHandler struct {
	store store.Store
}

func NewFeedbackHandler(s store.Store) *FeedbackHandler {
	return &FeedbackHandler{store: s}
}

type CreateFeedbackRequest struct {
	AssessmentID uuid.UUID `json:"assessment_id"`
	Rate         int       `json:"rate"`
	Comment      string    `json:"comment"`
}

// Create records a rating of an assessment's recommendation.
// POST /api/v1/feedback
func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateFeedbackRequest
	if err := decodeValid(r, feedbackSchema, &req); err != nil {
		writeError(w, err)
		return
	}

	f := &store.Feedback{AssessmentID: req.AssessmentID, Rate: req.Rate, Comment: req.Comment}
	if err := h.store.CreateFeedback(r.Context(), f); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}
