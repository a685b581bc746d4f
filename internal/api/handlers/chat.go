package handlers

import (
	"net/http"

	"veritas-lab/internal/domain/models"
	"veritas-lab/internal/domain/services"
	"veritas-lab/pkg/logger"
)

// ChatHandler handles the chat red-flag scanner
type ChatHandler struct {
	scanner *services.ChatScannerService
	logger  *logger.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(scanner *services.ChatScannerService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		scanner: scanner,
		logger:  log.WithComponent("chat-handler"),
	}
}

// Scan handles POST /api/v1/chat/scan
func (h *ChatHandler) Scan(w http.ResponseWriter, r *http.Request) {
	var req models.ChatScanRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	result, err := h.scanner.Scan(r.Context(), req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Patterns handles GET /api/v1/chat/patterns
func (h *ChatHandler) Patterns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"patterns": h.scanner.Patterns()})
}
