package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"veritas-lab/internal/domain/models"
	"veritas-lab/internal/domain/services/ai"
	"veritas-lab/pkg/logger"
)

const chatbotSystemPrompt = "You are VERITAS AI, a digital safety assistant specializing in helping women recognize and avoid online scams, harassment, and threats. " +
	"Provide practical, supportive advice focused on digital safety, privacy protection, and appropriate actions to take when faced with online dangers. " +
	"Always be empathetic and never blame the victim. When appropriate, suggest resources or steps that can help in emergency situations."

// WelcomeMessage opens every new conversation
const WelcomeMessage = "Hello, I'm VERITAS Safety Assistant. How can I help you stay safe online today?"

// ChatbotConfig configures the safety assistant
type ChatbotConfig struct {
	Model       string
	Temperature float64
	// HistoryTurns is how many earlier messages are replayed to the model
	HistoryTurns int
}

// ChatbotService is the authenticated safety assistant
type ChatbotService struct {
	model  ChatModel
	repo   ChatRepository
	config ChatbotConfig
	logger *logger.Logger
	now    func() time.Time
}

// NewChatbotService creates a new chatbot service
func NewChatbotService(model ChatModel, repo ChatRepository, cfg ChatbotConfig, log *logger.Logger) *ChatbotService {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.HistoryTurns == 0 {
		cfg.HistoryTurns = 20
	}
	return &ChatbotService{
		model:  model,
		repo:   repo,
		config: cfg,
		logger: log.WithComponent("chatbot"),
		now:    time.Now,
	}
}

// Send stores the user's message, asks the model and stores its reply. A
// missing conversation id starts a new conversation.
func (s *ChatbotService) Send(ctx context.Context, userID string, req models.ChatbotRequest) (*models.ChatbotResponse, error) {
	if userID == "" {
		return nil, models.ErrUnauthorized
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, models.ErrEmptyMessage
	}

	conv, err := s.conversation(ctx, userID, req.ConversationID)
	if err != nil {
		return nil, err
	}

	log := s.logger.WithUserID(userID)

	history, err := s.repo.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	if err := s.addMessage(ctx, conv.ID, models.ChatRoleUser, message); err != nil {
		return nil, err
	}

	prompt := buildPrompt(history, s.config.HistoryTurns, message)
	reply, err := s.model.Chat(ctx, s.config.Model, s.config.Temperature, chatbotSystemPrompt, prompt)
	if err != nil {
		log.Error().Err(err).Str("reason", ai.FailureReason(err)).Msg("chatbot completion failed")
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}

	if err := s.addMessage(ctx, conv.ID, models.ChatRoleAssistant, reply); err != nil {
		// the user still gets the answer
		log.Error().Err(err).Msg("failed to save assistant message")
	}

	log.Info().Str("conversation_id", conv.ID.String()).Msg("chatbot replied")

	return &models.ChatbotResponse{Response: reply, ConversationID: conv.ID}, nil
}

// Messages returns a conversation owned by userID, oldest first
func (s *ChatbotService) Messages(ctx context.Context, userID string, conversationID uuid.UUID) ([]models.ChatMessage, error) {
	if userID == "" {
		return nil, models.ErrUnauthorized
	}
	if _, err := s.repo.GetConversation(ctx, conversationID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, conversationID)
}

func (s *ChatbotService) conversation(ctx context.Context, userID, rawID string) (*models.ChatConversation, error) {
	if rawID != "" {
		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("conversation %q: %w", rawID, models.ErrNotFound)
		}
		return s.repo.GetConversation(ctx, id, userID)
	}

	now := s.now().UTC()
	conv := &models.ChatConversation{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     "Safety Chat " + now.Format("2006-01-02"),
		CreatedAt: now,
	}
	if err := s.repo.CreateConversation(ctx, conv); err != nil {
		return nil, err
	}
	if err := s.addMessage(ctx, conv.ID, models.ChatRoleAssistant, WelcomeMessage); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *ChatbotService) addMessage(ctx context.Context, conversationID uuid.UUID, role models.ChatRole, content string) error {
	return s.repo.AddMessage(ctx, &models.ChatMessage{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      s.now().UTC(),
	})
}

// buildPrompt replays the tail of the history followed by the new message
func buildPrompt(history []models.ChatMessage, turns int, message string) []ai.Message {
	if len(history) > turns {
		history = history[len(history)-turns:]
	}
	out := make([]ai.Message, 0, len(history)+1)
	for _, m := range history {
		out = append(out, ai.NewTextMessage(string(m.Role), m.Content))
	}
	return append(out, ai.NewTextMessage(string(models.ChatRoleUser), message))
}
