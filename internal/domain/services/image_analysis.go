package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"veritas-lab/internal/domain/models"
	"veritas-lab/internal/domain/services/ai"
	"veritas-lab/internal/domain/services/risk"
	"veritas-lab/internal/infrastructure/cache"
	"veritas-lab/internal/metrics"
	"veritas-lab/pkg/logger"
)

// Accepted upload types; anything else is rejected before the upstream call
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ImageAnalysisConfig bounds image analysis
type ImageAnalysisConfig struct {
	MaxImageSize int64
	CacheTTL     time.Duration
	HistoryLimit int
}

// ImageAnalysisService runs the canonical image pipeline: upstream vision
// analysis, the risk classifier, then the display refinement
type ImageAnalysisService struct {
	vision     VisionModel
	classifier *risk.ImageClassifier
	guard      InFlightGuard
	repo       ImageAnalysisRepository
	cache      ResultCache
	publisher  EventPublisher
	config     ImageAnalysisConfig
	logger     *logger.Logger
}

// NewImageAnalysisService creates the service. repo and cache may be nil.
func NewImageAnalysisService(
	vision VisionModel,
	classifier *risk.ImageClassifier,
	guard InFlightGuard,
	repo ImageAnalysisRepository,
	resultCache ResultCache,
	publisher EventPublisher,
	cfg ImageAnalysisConfig,
	log *logger.Logger,
) *ImageAnalysisService {
	if guard == nil {
		guard = NewMemoryInFlightGuard()
	}
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if cfg.MaxImageSize <= 0 {
		cfg.MaxImageSize = 5 * 1024 * 1024
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 5
	}
	return &ImageAnalysisService{
		vision:     vision,
		classifier: classifier,
		guard:      guard,
		repo:       repo,
		cache:      resultCache,
		publisher:  publisher,
		config:     cfg,
		logger:     log.WithComponent("image-analysis"),
	}
}

// ValidateImage checks an upload's size and sniffed content type and returns
// the detected MIME type
func ValidateImage(data []byte, maxSize int64) (string, error) {
	if len(data) == 0 {
		return "", models.ErrNoImage
	}
	if int64(len(data)) > maxSize {
		return "", fmt.Errorf("%w: %d bytes exceeds %d", models.ErrImageTooLarge, len(data), maxSize)
	}
	mimeType := http.DetectContentType(data)
	if !allowedImageTypes[mimeType] {
		return "", fmt.Errorf("%w: detected %s", models.ErrInvalidImageType, mimeType)
	}
	return mimeType, nil
}

func validateImageURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return models.ErrInvalidImageURL
	}
	return nil
}

// Analyze screens one image. Input errors are returned before any upstream
// call; upstream failures never are: they produce the fallback verdict.
func (s *ImageAnalysisService) Analyze(ctx context.Context, req *models.ImageAnalysisRequest) (*models.ImageAnalysis, error) {
	start := time.Now()

	var imageRef, storedRef string
	switch {
	case len(req.ImageData) > 0:
		mimeType, err := ValidateImage(req.ImageData, s.config.MaxImageSize)
		if err != nil {
			return nil, err
		}
		imageRef = ai.DataURL(mimeType, req.ImageData)
	case req.ImageURL != "":
		if err := validateImageURL(req.ImageURL); err != nil {
			return nil, err
		}
		imageRef = req.ImageURL
		storedRef = req.ImageURL
	default:
		return nil, models.ErrNoImage
	}

	hash := contentHash(imageRef)
	if storedRef == "" {
		storedRef = "upload:sha256:" + hash
	}

	if req.ClientID != "" {
		release, err := s.guard.Acquire(ctx, req.ClientID)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	if cached := s.fromCache(ctx, hash); cached != nil {
		analysis := reuseVerdict(cached, storedRef)
		analysis.ProcessingTime = time.Since(start).String()
		s.logger.WithAnalysisID(analysis.ID.String()).Debug().
			Str("cached_id", cached.ID.String()).
			Msg("image verdict served from cache")
		s.persist(ctx, req.UserID, analysis, "")
		return analysis, nil
	}

	analysis := &models.ImageAnalysis{
		ID:        uuid.New(),
		ImageURL:  storedRef,
		ModelUsed: s.vision.Model(),
		CreatedAt: time.Now().UTC(),
	}

	log := s.logger.WithAnalysisID(analysis.ID.String())

	text, err := s.vision.AnalyzeImage(ctx, imageRef)
	if err != nil {
		reason := ai.FailureReason(err)
		log.Warn().Err(err).Str("reason", reason).Msg("upstream analysis unavailable, using fallback")
		metrics.RecordFallback(reason)
		applyFallback(analysis, reason)
	} else {
		verdict := s.classifier.Classify(text)
		analysis.Analysis = text
		analysis.RiskLevel = verdict.Risk
		analysis.ConfidenceScore = verdict.Confidence
		analysis.ConfidenceFound = verdict.ConfidenceExtracted
		log.Debug().Strs("fired_rules", verdict.FiredRules).Msg("image rules evaluated")
	}

	display := risk.RefineScore(analysis.RiskLevel, analysis.ConfidenceScore)
	analysis.Display = &display
	analysis.ProcessingTime = time.Since(start).String()

	metrics.ImageVerdicts.WithLabelValues(string(analysis.RiskLevel)).Inc()
	metrics.DisplayRisks.WithLabelValues(string(display.DisplayRisk)).Inc()

	log.Info().
		Str("risk_level", string(analysis.RiskLevel)).
		Int("confidence", analysis.ConfidenceScore).
		Str("display_risk", string(display.DisplayRisk)).
		Bool("fallback", analysis.IsFallback).
		Dur("duration", time.Since(start)).
		Msg("image analyzed")

	s.persist(ctx, req.UserID, analysis, hash)

	return analysis, nil
}

// reuseVerdict copies a cached verdict into a new analysis owned by this request
func reuseVerdict(cached *models.ImageAnalysis, storedRef string) *models.ImageAnalysis {
	a := &models.ImageAnalysis{
		ID:              uuid.New(),
		ImageURL:        storedRef,
		Analysis:        cached.Analysis,
		RiskLevel:       cached.RiskLevel,
		ConfidenceScore: cached.ConfidenceScore,
		ConfidenceFound: cached.ConfidenceFound,
		ModelUsed:       cached.ModelUsed,
		CreatedAt:       time.Now().UTC(),
	}
	display := risk.RefineScore(a.RiskLevel, a.ConfidenceScore)
	a.Display = &display
	return a
}

// applyFallback fills in the fixed advisory verdict. Rate limits and quota
// exhaustion are an expected degraded mode and carry no error text.
func applyFallback(a *models.ImageAnalysis, reason string) {
	a.Analysis = risk.FallbackAnalysis
	a.RiskLevel = risk.FallbackRisk
	a.ConfidenceScore = risk.FallbackConfidence
	a.ConfidenceFound = false
	a.IsFallback = true
	if reason != "quota" {
		a.Error = fmt.Sprintf("AI analysis unavailable (%s); showing limited analysis", reason)
	}
}

func (s *ImageAnalysisService) fromCache(ctx context.Context, hash string) *models.ImageAnalysis {
	if s.cache == nil {
		return nil
	}
	var cached models.ImageAnalysis
	if err := s.cache.GetCachedImageAnalysis(ctx, hash, &cached); err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn().Err(err).Msg("result cache lookup failed")
		}
		return nil
	}
	return &cached
}

// persist stores, caches and announces the result. None of these may fail the request.
// An empty hash skips the cache write.
func (s *ImageAnalysisService) persist(ctx context.Context, userID string, a *models.ImageAnalysis, hash string) {
	if s.repo != nil {
		if err := s.repo.Create(ctx, userID, a); err != nil {
			s.logger.Error().Err(err).Str("analysis_id", a.ID.String()).Msg("failed to store image analysis")
		}
	}

	// Fallbacks are not cached so the next attempt can reach the model
	if s.cache != nil && hash != "" && !a.IsFallback && s.config.CacheTTL > 0 {
		if err := s.cache.CacheImageAnalysis(ctx, hash, a, s.config.CacheTTL); err != nil {
			s.logger.Warn().Err(err).Msg("failed to cache image analysis")
		}
	}

	if err := s.publisher.PublishImageAnalyzed(ctx, a); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish image analyzed event")
	}
}

// Recent lists the caller's latest analyses. Anonymous callers have no history.
func (s *ImageAnalysisService) Recent(ctx context.Context, userID string) ([]models.ImageAnalysisSummary, error) {
	if s.repo == nil || userID == "" {
		return []models.ImageAnalysisSummary{}, nil
	}
	list, err := s.repo.ListRecent(ctx, userID, s.config.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent analyses: %w", err)
	}
	return list, nil
}

// Refine exposes the display refinement for a verdict computed elsewhere
func (s *ImageAnalysisService) Refine(req models.DisplayRiskRequest) models.DisplayAssessment {
	return risk.Refine(models.ParseRiskVerdict(req.RiskLevel), req.Confidence)
}

func contentHash(ref string) string {
	sum := sha256.Sum256([]byte(ref))
	return hex.EncodeToString(sum[:])
}
