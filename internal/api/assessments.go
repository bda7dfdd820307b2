package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Nakkasenp65/device-assessment-dss/internal/hermes"
	"github.com/Nakkasenp65/device-assessment-dss/internal/metrics"
	"github.com/Nakkasenp65/device-assessment-dss/internal/scoring"
	"github.com/Nakkasenp65/device-assessment-dss/internal/store"
)

type AssessmentsHandler struct {
	store   store.Store
	engine  *scoring.Engine
	hermes  hermes.Client
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewAssessmentsHandler(s store.Store, e *scoring.Engine, h hermes.Client, m *metrics.Metrics, logger *slog.Logger) *AssessmentsHandler {
	return &AssessmentsHandler{store: s, engine: e, hermes: h, metrics: m, logger: logger}
}

type CreateAssessmentRequest struct {
	ModelID   int64                `json:"model_id"`
	StorageGB int                  `json:"storage_gb"`
	Answers   []scoring.UserAnswer `json:"answers"`
}

type AssessmentResponse struct {
	ID        uuid.UUID                 `json:"id"`
	ModelID   int64                     `json:"model_id"`
	StorageGB int                       `json:"storage_gb"`
	Status    store.AssessmentStatus    `json:"status"`
	CreatedAt time.Time                 `json:"created_at"`
	Result    *scoring.AssessmentResult `json:"result"`
}

// Create scores a device, stores the assessment and announces it.
// POST /api/v1/assessments
func (h *AssessmentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req CreateAssessmentRequest
	if err := decodeValid(r, assessmentSchema, &req); err != nil {
		h.fail(w, err)
		return
	}

	result, err := h.engine.Assess(r.Context(), scoring.AssessmentInput{ModelID: req.ModelID, Answers: req.Answers})
	if err != nil {
		h.fail(w, err)
		return
	}

	a := newAssessment(req, result)
	if err := h.store.CreateAssessment(r.Context(), a); err != nil {
		h.fail(w, err)
		return
	}

	winner := result.PathResults[0]
	h.metrics.AssessmentsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	h.metrics.AssessmentDuration.Observe(time.Since(start).Seconds())
	h.metrics.Recommendations.WithLabelValues(winner.PathName).Inc()

	if h.hermes != nil {
		if err := h.hermes.Publish(r.Context(), hermes.SubjectAssessmentCompleted(a.ID.String()), completedEvent(a, result)); err != nil {
			h.logger.Warn("publish assessment completed failed", "assessment_id", a.ID, "error", err)
		}
	}

	h.logger.Info("assessment completed",
		"assessment_id", a.ID,
		"model_id", a.ModelID,
		"recommended", winner.PathName,
		"total_score", winner.TotalScore,
	)

	writeJSON(w, http.StatusCreated, AssessmentResponse{
		ID:        a.ID,
		ModelID:   a.ModelID,
		StorageGB: a.StorageGB,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
		Result:    result,
	})
}

func (h *AssessmentsHandler) fail(w http.ResponseWriter, err error) {
	status, outcome := classify(err)
	h.metrics.AssessmentsTotal.WithLabelValues(outcome).Inc()
	if status >= http.StatusInternalServerError {
		h.logger.Error("assessment failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (h *AssessmentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid assessment id"})
		return
	}

	a, err := h.store.GetAssessment(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if a == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "assessment not found"})
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func newAssessment(req CreateAssessmentRequest, res *scoring.AssessmentResult) *store.Assessment {
	a := &store.Assessment{
		ModelID:         req.ModelID,
		StorageGB:       req.StorageGB,
		Status:          store.AssessmentCompleted,
		AgeScore:        res.AgeScore,
		PhysicalScore:   res.PhysicalResult.Score,
		FunctionalScore: res.FunctionalResult.Score,
	}
	for _, cat := range []scoring.CategoryResult{res.PhysicalResult, res.FunctionalResult} {
		for _, d := range cat.Details {
			a.Conditions = append(a.Conditions, store.AssessmentCondition{
				ConditionID:    d.ConditionID,
				AnswerOptionID: d.AnswerOptionID,
				MaxPoints:      d.MaxPoints,
				Severity:       d.Severity,
				Deduction:      d.Deduction,
			})
		}
	}
	for _, p := range res.PathResults {
		a.PathScores = append(a.PathScores, store.PathScore{
			DecisionPathID:  p.DecisionPathID,
			PathName:        p.PathName,
			TotalScore:      p.TotalScore,
			ScorePhysical:   p.ScorePhysical,
			ScoreFunctional: p.ScoreFunctional,
			ScoreAge:        p.ScoreAge,
			Rank:            p.Rank,
			IsRecommended:   p.IsRecommended,
		})
	}
	return a
}

func completedEvent(a *store.Assessment, res *scoring.AssessmentResult) hermes.AssessmentCompletedEvent {
	ev := hermes.AssessmentCompletedEvent{
		AssessmentID:    a.ID.String(),
		ModelID:         a.ModelID,
		AgeScore:        a.AgeScore,
		PhysicalScore:   a.PhysicalScore,
		FunctionalScore: a.FunctionalScore,
		Timestamp:       a.CreatedAt,
	}
	for _, p := range res.PathResults {
		rp := hermes.RankedPath{DecisionPathID: p.DecisionPathID, Name: p.PathName, TotalScore: p.TotalScore, Rank: p.Rank}
		ev.Paths = append(ev.Paths, rp)
		if p.IsRecommended {
			ev.Recommended = rp
		}
	}
	return ev
}
