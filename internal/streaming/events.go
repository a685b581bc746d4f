package streaming

import (
	"time"

	"github.com/google/uuid"

	"veritas-lab/internal/domain/models"
)

// EventType represents the type of domain event
type EventType string

const (
	EventTypeImageAnalyzed   EventType = "image_analyzed"
	EventTypeChatScanned     EventType = "chat_scanned"
	EventTypeReportSubmitted EventType = "report_submitted"
)

// Event is the envelope published on the bus. Payloads never carry the
// analysed image, chat text or report contents.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// ImageAnalyzedData summarizes a finished image analysis
type ImageAnalyzedData struct {
	AnalysisID      string             `json:"analysis_id"`
	RiskLevel       models.RiskVerdict `json:"risk_level"`
	ConfidenceScore int                `json:"confidence_score"`
	DisplayRisk     models.DisplayRisk `json:"display_risk,omitempty"`
	IsFallback      bool               `json:"is_fallback"`
	ModelUsed       string             `json:"model_used,omitempty"`
}

// ChatScannedData summarizes a chat red-flag scan
type ChatScannedData struct {
	ThreatLevel models.ThreatLevel `json:"threat_level"`
	FlagCount   int                `json:"flag_count"`
	Categories  []string           `json:"categories,omitempty"`
}

// ReportSubmittedData announces a new anonymous report
type ReportSubmittedData struct {
	CaseID   string                `json:"case_id"`
	Category models.ReportCategory `json:"category"`
	Platform string                `json:"platform"`
}

// NewEvent wraps data in an envelope with a fresh id and timestamp
func NewEvent(eventType EventType, data any) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}
