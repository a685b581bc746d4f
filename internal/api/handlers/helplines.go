package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"veritas-lab/internal/domain/services"
	"veritas-lab/pkg/logger"
)

// HelplinesHandler serves the emergency contact directory
type HelplinesHandler struct {
	directory *services.HelplineDirectory
	logger    *logger.Logger
}

// NewHelplinesHandler creates a new helplines handler
func NewHelplinesHandler(directory *services.HelplineDirectory, log *logger.Logger) *HelplinesHandler {
	return &HelplinesHandler{
		directory: directory,
		logger:    log.WithComponent("helplines-handler"),
	}
}

// List handles GET /api/v1/helplines
func (h *HelplinesHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"regions":   h.directory.Regions(),
		"helplines": h.directory.All(),
	})
}

// Get handles GET /api/v1/helplines/{region}
func (h *HelplinesHandler) Get(w http.ResponseWriter, r *http.Request) {
	region := chi.URLParam(r, "region")
	lines, err := h.directory.ForRegion(region)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"region": region, "helplines": lines})
}
