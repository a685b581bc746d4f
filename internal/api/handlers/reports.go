package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"veritas-lab/internal/domain/models"
	"veritas-lab/internal/domain/services"
	"veritas-lab/pkg/logger"
)

// ReportsHandler handles anonymous incident reports
type ReportsHandler struct {
	reports *services.ReportService
	logger  *logger.Logger
}

// NewReportsHandler creates a new reports handler
func NewReportsHandler(reports *services.ReportService, log *logger.Logger) *ReportsHandler {
	return &ReportsHandler{
		reports: reports,
		logger:  log.WithComponent("reports-handler"),
	}
}

// SubmitResponse acknowledges a report
type SubmitResponse struct {
	CaseID string              `json:"case_id"`
	Status models.ReportStatus `json:"status"`
}

// Submit handles POST /api/v1/reports
func (h *ReportsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.ReportRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	rep, err := h.reports.Submit(r.Context(), req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, SubmitResponse{CaseID: rep.CaseID, Status: rep.Status})
}

// Get handles GET /api/v1/reports/{caseID}
func (h *ReportsHandler) Get(w http.ResponseWriter, r *http.Request) {
	rep, err := h.reports.Status(r.Context(), chi.URLParam(r, "caseID"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
