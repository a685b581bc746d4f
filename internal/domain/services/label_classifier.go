package services

import (
	"context"
	"fmt"

	"veritas-lab/internal/domain/models"
	"veritas-lab/internal/domain/services/ai"
	"veritas-lab/internal/domain/services/risk"
	"veritas-lab/pkg/logger"
)

// LabelClassifierService is the quick check: a generic image classifier's
// top label run through the label heuristic. It has no fallback.
type LabelClassifierService struct {
	labeler      ImageLabeler
	maxImageSize int64
	logger       *logger.Logger
}

// NewLabelClassifierService creates a new label classifier service
func NewLabelClassifierService(labeler ImageLabeler, maxImageSize int64, log *logger.Logger) *LabelClassifierService {
	if maxImageSize <= 0 {
		maxImageSize = 5 * 1024 * 1024
	}
	return &LabelClassifierService{
		labeler:      labeler,
		maxImageSize: maxImageSize,
		logger:       log.WithComponent("label-classifier"),
	}
}

// Classify validates the upload and classifies it
func (s *LabelClassifierService) Classify(ctx context.Context, image []byte) (*models.LabelClassification, error) {
	mimeType, err := ValidateImage(image, s.maxImageSize)
	if err != nil {
		return nil, err
	}

	predictions, err := s.labeler.Classify(ctx, image, mimeType)
	if err != nil {
		s.logger.Warn().Err(err).Str("reason", ai.FailureReason(err)).Msg("image classification failed")
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}

	result, err := risk.ClassifyLabel(predictions)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}

	s.logger.Info().
		Str("label", result.Label).
		Float64("confidence", result.Confidence).
		Bool("is_ai", result.IsAI).
		Msg("image label classified")

	return &result, nil
}
