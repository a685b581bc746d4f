package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"veritas-lab/internal/api/middleware"
	"veritas-lab/internal/domain/models"
	"veritas-lab/internal/domain/services"
	"veritas-lab/pkg/logger"
)

// ChatbotHandler handles the authenticated safety assistant
type ChatbotHandler struct {
	chatbot *services.ChatbotService
	logger  *logger.Logger
}

// NewChatbotHandler creates a new chatbot handler
func NewChatbotHandler(chatbot *services.ChatbotService, log *logger.Logger) *ChatbotHandler {
	return &ChatbotHandler{
		chatbot: chatbot,
		logger:  log.WithComponent("chatbot-handler"),
	}
}

// Send handles POST /api/v1/chatbot/messages
func (h *ChatbotHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req models.ChatbotRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	resp, err := h.chatbot.Send(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Messages handles GET /api/v1/chatbot/conversations/{id}/messages
func (h *ChatbotHandler) Messages(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, models.ErrNotFound)
		return
	}

	msgs, err := h.chatbot.Messages(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}
