package api

import (
	"net/http"

	"github.com/Nakkasenp65/device-assessment-dss/internal/store"
)

type ModelsHandler struct {
	catalog store.Catalog
}

func NewModelsHandler(c store.Catalog) *ModelsHandler {
	return &ModelsHandler{catalog: c}
}

// GET /api/v1/models
func (h *ModelsHandler) List(w http.ResponseWriter, r *http.Request) {
	models, err := h.catalog.ListModels(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if models == nil {
		models = []store.DeviceModel{}
	}
	writeJSON(w, http.StatusOK, models)
}
