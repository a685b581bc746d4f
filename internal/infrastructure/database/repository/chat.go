package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"veritas-lab/internal/domain/models"
	"veritas-lab/internal/infrastructure/database"
)

// ChatRepository stores chatbot conversations and their messages
type ChatRepository struct {
	db database.DBTX
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db database.DBTX) *ChatRepository {
	return &ChatRepository{db: db}
}

// CreateConversation inserts a new conversation
func (r *ChatRepository) CreateConversation(ctx context.Context, c *models.ChatConversation) error {
	query := `INSERT INTO chat_conversations (id, user_id, title, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.Exec(ctx, query, c.ID, c.UserID, c.Title, c.CreatedAt); err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

// GetConversation retrieves a conversation owned by userID
func (r *ChatRepository) GetConversation(ctx context.Context, id uuid.UUID, userID string) (*models.ChatConversation, error) {
	query := `
		SELECT id, user_id, title, created_at
		FROM chat_conversations
		WHERE id = $1 AND user_id = $2`

	var c models.ChatConversation
	if err := r.db.QueryRow(ctx, query, id, userID).Scan(&c.ID, &c.UserID, &c.Title, &c.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", notFound(err))
	}
	return &c, nil
}

// AddMessage appends a message to a conversation
func (r *ChatRepository) AddMessage(ctx context.Context, m *models.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (id, conversation_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.Exec(ctx, query, m.ID, m.ConversationID, string(m.Role), m.Content, m.CreatedAt); err != nil {
		return fmt.Errorf("failed to add message: %w", err)
	}
	return nil
}

// ListMessages returns a conversation's messages oldest first
func (r *ChatRepository) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]models.ChatMessage, error) {
	query := `
		SELECT id, conversation_id, role, content, created_at
		FROM chat_messages
		WHERE conversation_id = $1
		ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := []models.ChatMessage{}
	for rows.Next() {
		var (
			m    models.ChatMessage
			role string
		)
		if err := rows.Scan(&m.ID, &m.ConversationID, &role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.Role = models.ChatRole(role)
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}
	return messages, nil
}
