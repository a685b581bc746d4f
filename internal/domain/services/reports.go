package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"veritas-lab/internal/domain/models"
	"veritas-lab/internal/metrics"
	"veritas-lab/pkg/logger"
)

const caseIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ReportService accepts anonymous incident reports
type ReportService struct {
	repo      ReportRepository
	publisher EventPublisher
	logger    *logger.Logger
	now       func() time.Time
}

// NewReportService creates a new report service
func NewReportService(repo ReportRepository, publisher EventPublisher, log *logger.Logger) *ReportService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &ReportService{
		repo:      repo,
		publisher: publisher,
		logger:    log.WithComponent("reports"),
		now:       time.Now,
	}
}

// Validate checks the required fields of a report
func (s *ReportService) Validate(req models.ReportRequest) error {
	if !req.Category.IsValid() || strings.TrimSpace(req.Platform) == "" || strings.TrimSpace(req.Description) == "" {
		return models.ErrInvalidReport
	}
	switch req.ContactMethod {
	case "", models.ContactNone:
	case models.ContactEmail:
		if strings.TrimSpace(req.ContactInfo) == "" {
			return models.ErrContactRequired
		}
	default:
		return models.ErrInvalidReport
	}
	return nil
}

// Submit validates, stores and announces a report
func (s *ReportService) Submit(ctx context.Context, req models.ReportRequest) (*models.Report, error) {
	if err := s.Validate(req); err != nil {
		return nil, err
	}

	now := s.now()
	caseID, err := NewCaseID(now)
	if err != nil {
		return nil, err
	}

	method := req.ContactMethod
	contact := strings.TrimSpace(req.ContactInfo)
	if method == "" || method == models.ContactNone {
		method, contact = models.ContactNone, ""
	}

	rep := &models.Report{
		ID:            uuid.New(),
		CaseID:        caseID,
		Category:      req.Category,
		Platform:      strings.TrimSpace(req.Platform),
		Description:   strings.TrimSpace(req.Description),
		IncidentDate:  strings.TrimSpace(req.IncidentDate),
		ContactMethod: method,
		ContactInfo:   contact,
		Status:        models.ReportStatusReceived,
		CreatedAt:     now.UTC(),
	}

	if err := s.repo.Create(ctx, rep); err != nil {
		return nil, fmt.Errorf("failed to store report: %w", err)
	}

	metrics.Reports.WithLabelValues(string(rep.Category)).Inc()
	s.logger.Info().Str("case_id", rep.CaseID).Str("category", string(rep.Category)).Msg("report submitted")

	if err := s.publisher.PublishReportSubmitted(ctx, rep); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish report submitted event")
	}

	return rep, nil
}

// Status looks a report up by case id
func (s *ReportService) Status(ctx context.Context, caseID string) (*models.Report, error) {
	return s.repo.GetByCaseID(ctx, strings.ToUpper(strings.TrimSpace(caseID)))
}

// NewCaseID builds VR-<first 5 base36 digits of the unix millis>-<5 random base36>
func NewCaseID(t time.Time) (string, error) {
	stamp := strconv.FormatInt(t.UnixMilli(), 36)
	if len(stamp) > 5 {
		stamp = stamp[:5]
	}

	var suffix [5]byte
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(caseIDAlphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to generate case id: %w", err)
		}
		suffix[i] = caseIDAlphabet[n.Int64()]
	}

	return "VR-" + strings.ToUpper(stamp) + "-" + string(suffix[:]), nil
}
