package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatRole is the author of a chatbot message
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatConversation groups chatbot messages for one user
type ChatConversation struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatMessage is one stored chatbot turn
type ChatMessage struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	Role           ChatRole  `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// ChatbotRequest is a user message to the safety assistant
type ChatbotRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId,omitempty"`
}

// ChatbotResponse is the assistant's reply
type ChatbotResponse struct {
	Response       string    `json:"response"`
	ConversationID uuid.UUID `json:"conversationId"`
}
