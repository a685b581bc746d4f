package services

import (
	"context"
	"strings"

	"veritas-lab/internal/domain/models"
	"veritas-lab/internal/domain/services/risk"
	"veritas-lab/internal/metrics"
	"veritas-lab/pkg/logger"
)

// ChatScannerService scans pasted conversations for manipulation tactics
type ChatScannerService struct {
	helplines *HelplineDirectory
	publisher EventPublisher
	logger    *logger.Logger
}

// NewChatScannerService creates a new chat scanner service
func NewChatScannerService(helplines *HelplineDirectory, publisher EventPublisher, log *logger.Logger) *ChatScannerService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &ChatScannerService{
		helplines: helplines,
		publisher: publisher,
		logger:    log.WithComponent("chat-scanner"),
	}
}

// Scan rejects blank text; otherwise it always produces a result. When
// anything was flagged and a region is given, that region's helplines are
// attached.
func (s *ChatScannerService) Scan(ctx context.Context, req models.ChatScanRequest) (*models.ChatScanResult, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, models.ErrEmptyText
	}

	result := risk.ScanChat(req.Text)

	if result.ThreatLevel != models.ThreatNone && req.Region != "" && s.helplines != nil {
		if lines, err := s.helplines.ForRegion(req.Region); err == nil {
			result.Helplines = lines
		}
	}

	for _, f := range result.RedFlags {
		metrics.RedFlags.WithLabelValues(f.Category).Inc()
	}
	metrics.ThreatLevels.WithLabelValues(string(result.ThreatLevel)).Inc()

	s.logger.Info().
		Int("red_flags", len(result.RedFlags)).
		Str("threat_level", string(result.ThreatLevel)).
		Msg("chat scanned")

	if err := s.publisher.PublishChatScanned(ctx, &result); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish chat scanned event")
	}

	return &result, nil
}

// Patterns lists the scanner's patterns in evaluation order
func (s *ChatScannerService) Patterns() []models.RedFlagPatternInfo {
	out := make([]models.RedFlagPatternInfo, len(risk.RedFlagPatterns))
	for i, p := range risk.RedFlagPatterns {
		out[i] = models.RedFlagPatternInfo{
			Category:    p.Category,
			Pattern:     p.Pattern.String(),
			Explanation: p.Explanation,
		}
	}
	return out
}
