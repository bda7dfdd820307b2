package api

import (
	"net/http"

	"github.com/Nakkasenp65/device-assessment-dss/internal/store"
)

type ConditionsHandler struct {
	catalog store.Catalog
}

func NewConditionsHandler(c store.Catalog) *ConditionsHandler {
	return &ConditionsHandler{catalog: c}
}

// ConditionResponse is a condition together with the answers a client may
// give for it.
type ConditionResponse struct {
	store.Condition
	AnswerOptions []store.AnswerOption `json:"answer_options"`
}

// List returns the condition catalog, optionally narrowed to one category.
// GET /api/v1/conditions?category=physical
func (h *ConditionsHandler) List(w http.ResponseWriter, r *http.Request) {
	categories := store.Categories()
	if q := r.URL.Query().Get("category"); q != "" {
		c, err := store.ParseCategory(q)
		if err != nil {
			writeError(w, &requestError{msg: err.Error()})
			return
		}
		categories = []store.Category{c}
	}

	var conds []store.Condition
	for _, c := range categories {
		cs, err := h.catalog.ConditionsByCategory(r.Context(), c)
		if err != nil {
			writeError(w, err)
			return
		}
		conds = append(conds, cs...)
	}

	var groupIDs []int64
	seen := make(map[int64]bool)
	for _, c := range conds {
		if c.AnswerGroupID != 0 && !seen[c.AnswerGroupID] {
			seen[c.AnswerGroupID] = true
			groupIDs = append(groupIDs, c.AnswerGroupID)
		}
	}
	options, err := h.catalog.AnswerOptionsByGroups(r.Context(), groupIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	byGroup := make(map[int64][]store.AnswerOption, len(groupIDs))
	for _, o := range options {
		byGroup[o.GroupID] = append(byGroup[o.GroupID], o)
	}

	out := make([]ConditionResponse, 0, len(conds))
	for _, c := range conds {
		opts := byGroup[c.AnswerGroupID]
		if opts == nil {
			opts = []store.AnswerOption{}
		}
		out = append(out, ConditionResponse{Condition: c, AnswerOptions: opts})
	}
	writeJSON(w, http.StatusOK, out)
}
