package streaming

import (
	"context"

	"veritas-lab/internal/domain/models"
)

// EventBusPublisher implements services.EventPublisher using the EventBus
type EventBusPublisher struct {
	eventBus *EventBus
}

// NewEventBusPublisher creates a new publisher adapter
func NewEventBusPublisher(eventBus *EventBus) *EventBusPublisher {
	return &EventBusPublisher{eventBus: eventBus}
}

// PublishImageAnalyzed announces a finished image analysis
func (p *EventBusPublisher) PublishImageAnalyzed(ctx context.Context, a *models.ImageAnalysis) error {
	data := ImageAnalyzedData{
		AnalysisID:      a.ID.String(),
		RiskLevel:       a.RiskLevel,
		ConfidenceScore: a.ConfidenceScore,
		IsFallback:      a.IsFallback,
		ModelUsed:       a.ModelUsed,
	}
	if a.Display != nil {
		data.DisplayRisk = a.Display.DisplayRisk
	}
	return p.eventBus.Publish(ctx, NewEvent(EventTypeImageAnalyzed, data))
}

// PublishChatScanned announces a chat scan result without the scanned text
func (p *EventBusPublisher) PublishChatScanned(ctx context.Context, r *models.ChatScanResult) error {
	categories := make([]string, len(r.RedFlags))
	for i, f := range r.RedFlags {
		categories[i] = f.Category
	}
	return p.eventBus.Publish(ctx, NewEvent(EventTypeChatScanned, ChatScannedData{
		ThreatLevel: r.ThreatLevel,
		FlagCount:   len(r.RedFlags),
		Categories:  categories,
	}))
}

// PublishReportSubmitted announces a new report by case id only
func (p *EventBusPublisher) PublishReportSubmitted(ctx context.Context, r *models.Report) error {
	return p.eventBus.Publish(ctx, NewEvent(EventTypeReportSubmitted, ReportSubmittedData{
		CaseID:   r.CaseID,
		Category: r.Category,
		Platform: r.Platform,
	}))
}
