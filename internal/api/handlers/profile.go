package handlers

import (
	"net/http"

	"veritas-lab/internal/domain/models"
	"veritas-lab/internal/domain/services"
	"veritas-lab/pkg/logger"
)

// ProfileHandler handles the fake-profile scanner
type ProfileHandler struct {
	scanner      *services.ProfileScannerService
	maxImageSize int64
	logger       *logger.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(scanner *services.ProfileScannerService, maxImageSize int64, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		scanner:      scanner,
		maxImageSize: maxImageSize,
		logger:       log.WithComponent("profile-handler"),
	}
}

// Scan handles POST /api/v1/profile/scan - multipart form (optional "image")
// or a JSON body with the same fields
func (h *ProfileHandler) Scan(w http.ResponseWriter, r *http.Request) {
	var (
		req        models.ProfileScanRequest
		screenshot []byte
	)

	if isMultipart(r) {
		data, err := readUpload(w, r, "image", h.maxImageSize)
		if err != nil {
			respondError(w, h.logger, err)
			return
		}
		screenshot = data
		req = models.ProfileScanRequest{
			Followers:     r.FormValue("followers"),
			Following:     r.FormValue("following"),
			Posts:         r.FormValue("posts"),
			Username:      r.FormValue("username"),
			Bio:           r.FormValue("bio"),
			PostedSameDay: r.FormValue("posted_same_day"),
		}
	} else if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	result, err := h.scanner.Scan(req, screenshot)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
