package handlers

import (
	"net/http"

	"veritas-lab/internal/api/middleware"
	"veritas-lab/internal/domain/models"
	"veritas-lab/internal/domain/services"
	"veritas-lab/pkg/logger"
)

// ImageHandler handles image screening endpoints
type ImageHandler struct {
	analysis     *services.ImageAnalysisService
	classifier   *services.LabelClassifierService
	maxImageSize int64
	logger       *logger.Logger
}

// NewImageHandler creates a new image handler
func NewImageHandler(analysis *services.ImageAnalysisService, classifier *services.LabelClassifierService, maxImageSize int64, log *logger.Logger) *ImageHandler {
	return &ImageHandler{
		analysis:     analysis,
		classifier:   classifier,
		maxImageSize: maxImageSize,
		logger:       log.WithComponent("image-handler"),
	}
}

// AnalyzeRequest is the JSON form of an analysis request
type AnalyzeRequest struct {
	ImageURL string `json:"image_url"`
}

// Analyze handles POST /api/v1/image/analyze - JSON {image_url} or multipart "image".
// Upstream failures still answer 200 with the fallback verdict.
func (h *ImageHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	req := &models.ImageAnalysisRequest{
		ClientID: middleware.ClientID(r),
		UserID:   middleware.GetUserID(r.Context()),
	}

	if isMultipart(r) {
		data, err := readUpload(w, r, "image", h.maxImageSize)
		if err != nil {
			respondError(w, h.logger, err)
			return
		}
		req.ImageData = data
	} else {
		var body AnalyzeRequest
		if err := decodeJSON(w, r, maxJSONBody, &body); err != nil {
			respondError(w, h.logger, err)
			return
		}
		req.ImageURL = body.ImageURL
	}

	result, err := h.analysis.Analyze(r.Context(), req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Recent handles GET /api/v1/image/analyses - the latest stored analyses
func (h *ImageHandler) Recent(w http.ResponseWriter, r *http.Request) {
	list, err := h.analysis.Recent(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"analyses": list})
}

// Classify handles POST /api/v1/image/classify - multipart "image"
func (h *ImageHandler) Classify(w http.ResponseWriter, r *http.Request) {
	if !isMultipart(r) {
		respondError(w, h.logger, models.ErrNoImage)
		return
	}
	data, err := readUpload(w, r, "image", h.maxImageSize)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	result, err := h.classifier.Classify(r.Context(), data)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// DisplayRisk handles POST /api/v1/display-risk
func (h *ImageHandler) DisplayRisk(w http.ResponseWriter, r *http.Request) {
	var req models.DisplayRiskRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, h.analysis.Refine(req))
}
