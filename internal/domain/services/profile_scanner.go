package services

import (
	"veritas-lab/internal/domain/models"
	"veritas-lab/internal/domain/services/risk"
	"veritas-lab/pkg/logger"
)

// ProfileScannerService runs the fake-profile heuristics. A screenshot may be
// attached for the record but is not read; the verdict comes from the typed
// fields alone.
type ProfileScannerService struct {
	maxImageSize int64
	logger       *logger.Logger
}

// NewProfileScannerService creates a new profile scanner
func NewProfileScannerService(maxImageSize int64, log *logger.Logger) *ProfileScannerService {
	if maxImageSize <= 0 {
		maxImageSize = 5 * 1024 * 1024
	}
	return &ProfileScannerService{
		maxImageSize: maxImageSize,
		logger:       log.WithComponent("profile-scanner"),
	}
}

// Scan validates the optional screenshot and scores the profile fields
func (s *ProfileScannerService) Scan(req models.ProfileScanRequest, screenshot []byte) (*models.ProfileScanResult, error) {
	if len(screenshot) > 0 {
		if _, err := ValidateImage(screenshot, s.maxImageSize); err != nil {
			return nil, err
		}
		req.HasImage = true
	}

	result := risk.AnalyzeProfile(req)

	s.logger.Info().
		Str("result", result.Result).
		Int("signals", len(result.Explanation)).
		Bool("screenshot", req.HasImage).
		Msg("profile scanned")

	return &result, nil
}
