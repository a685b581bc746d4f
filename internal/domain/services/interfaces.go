package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"veritas-lab/internal/domain/models"
	"veritas-lab/internal/domain/services/ai"
)

// EventPublisher publishes domain events (NATS, local subscribers)
type EventPublisher interface {
	PublishImageAnalyzed(ctx context.Context, a *models.ImageAnalysis) error
	PublishChatScanned(ctx context.Context, r *models.ChatScanResult) error
	PublishReportSubmitted(ctx context.Context, r *models.Report) error
}

// ImageAnalysisRepository persists analysis records
type ImageAnalysisRepository interface {
	Create(ctx context.Context, userID string, a *models.ImageAnalysis) error
	ListRecent(ctx context.Context, userID string, limit int) ([]models.ImageAnalysisSummary, error)
}

// ReportRepository persists anonymous reports
type ReportRepository interface {
	Create(ctx context.Context, r *models.Report) error
	GetByCaseID(ctx context.Context, caseID string) (*models.Report, error)
}

// ChatRepository persists chatbot conversations
type ChatRepository interface {
	CreateConversation(ctx context.Context, c *models.ChatConversation) error
	GetConversation(ctx context.Context, id uuid.UUID, userID string) (*models.ChatConversation, error)
	AddMessage(ctx context.Context, m *models.ChatMessage) error
	ListMessages(ctx context.Context, conversationID uuid.UUID) ([]models.ChatMessage, error)
}

// ResultCache stores finished analyses by content hash
type ResultCache interface {
	CacheImageAnalysis(ctx context.Context, hash string, data any, ttl time.Duration) error
	GetCachedImageAnalysis(ctx context.Context, hash string, dest any) error
}

// VisionModel produces a written forensic analysis of an image reference
type VisionModel interface {
	AnalyzeImage(ctx context.Context, imageRef string) (string, error)
	Model() string
}

// ImageLabeler returns generic classifier labels for raw image bytes
type ImageLabeler interface {
	Classify(ctx context.Context, image []byte, mimeType string) ([]models.ImagePrediction, error)
}

// ChatModel completes a conversation
type ChatModel interface {
	Chat(ctx context.Context, model string, temperature float64, system string, messages []ai.Message) (string, error)
}

// NopPublisher drops every event
type NopPublisher struct{}

func (NopPublisher) PublishImageAnalyzed(context.Context, *models.ImageAnalysis) error { return nil }
func (NopPublisher) PublishChatScanned(context.Context, *models.ChatScanResult) error  { return nil }
func (NopPublisher) PublishReportSubmitted(context.Context, *models.Report) error      { return nil }
