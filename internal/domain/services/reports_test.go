package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veritas-lab/internal/domain/models"
	"veritas-lab/pkg/logger"
)

var caseIDFormat = regexp.MustCompile(`^VR-[0-9A-Z]{5}-[0-9A-Z]{5}$`)

func TestNewCaseID(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id, err := NewCaseID(now)
		require.NoError(t, err)
		assert.Regexp(t, caseIDFormat, id)
		assert.Equal(t, "VR-LOYW3-", id[:9])
		seen[id] = true
	}
	assert.Greater(t, len(seen), 45)
}

func TestReportValidate(t *testing.T) {
	svc := NewReportService(NewMemoryReportStore(), nil, logger.NewNop())
	valid := models.ReportRequest{
		Category:      models.ReportHarassment,
		Platform:      "Instagram",
		Description:   "Repeated unwanted messages",
		ContactMethod: models.ContactNone,
	}

	tests := []struct {
		name   string
		mutate func(r *models.ReportRequest)
		want   error
	}{
		{"valid", func(*models.ReportRequest) {}, nil},
		{"no contact method defaults to none", func(r *models.ReportRequest) { r.ContactMethod = "" }, nil},
		{"missing category", func(r *models.ReportRequest) { r.Category = "" }, models.ErrInvalidReport},
		{"unknown category", func(r *models.ReportRequest) { r.Category = "spam" }, models.ErrInvalidReport},
		{"blank platform", func(r *models.ReportRequest) { r.Platform = "  " }, models.ErrInvalidReport},
		{"blank description", func(r *models.ReportRequest) { r.Description = "" }, models.ErrInvalidReport},
		{"email without address", func(r *models.ReportRequest) { r.ContactMethod = models.ContactEmail }, models.ErrContactRequired},
		{"email with address", func(r *models.ReportRequest) {
			r.ContactMethod = models.ContactEmail
			r.ContactInfo = "me@example.com"
		}, nil},
		{"unknown contact method", func(r *models.ReportRequest) { r.ContactMethod = "pigeon" }, models.ErrInvalidReport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := svc.Validate(req)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestReportSubmitAndStatus(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewReportService(NewMemoryReportStore(), pub, logger.NewNop())
	ctx := context.Background()

	rep, err := svc.Submit(ctx, models.ReportRequest{
		Category:      models.ReportScam,
		Platform:      " WhatsApp ",
		Description:   "Asked for money",
		ContactMethod: models.ContactNone,
		ContactInfo:   "ignored@example.com",
	})
	require.NoError(t, err)

	assert.Regexp(t, caseIDFormat, rep.CaseID)
	assert.Equal(t, models.ReportStatusReceived, rep.Status)
	assert.Equal(t, "WhatsApp", rep.Platform)
	assert.Empty(t, rep.ContactInfo)
	require.Len(t, pub.reports, 1)

	got, err := svc.Status(ctx, rep.CaseID)
	require.NoError(t, err)
	assert.Equal(t, rep.ID, got.ID)

	_, err = svc.Status(ctx, "VR-NOPE0-NOPE0")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestReportSubmitInvalid(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewReportService(NewMemoryReportStore(), pub, logger.NewNop())

	_, err := svc.Submit(context.Background(), models.ReportRequest{Category: models.ReportOther})
	assert.ErrorIs(t, err, models.ErrInvalidReport)
	assert.Empty(t, pub.reports)
}

func TestProfileScanner(t *testing.T) {
	svc := NewProfileScannerService(1024, logger.NewNop())

	got, err := svc.Scan(models.ProfileScanRequest{
		Followers: "5", Following: "400", Posts: "1", Username: "real_official_123",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.ProfileLikelyFake, got.Result)

	got, err = svc.Scan(models.ProfileScanRequest{
		Followers: "500", Following: "300", Posts: "40", Username: "jane", Bio: "hiker",
	}, pngHeader)
	require.NoError(t, err)
	assert.Equal(t, models.ProfileReal, got.Result)

	_, err = svc.Scan(models.ProfileScanRequest{}, []byte("not an image"))
	assert.ErrorIs(t, err, models.ErrInvalidImageType)
}

func TestLabelClassifierService(t *testing.T) {
	labeler := &fakeLabeler{predictions: []models.ImagePrediction{{Label: "comic book, cartoon", Score: 0.81}}}
	svc := NewLabelClassifierService(labeler, 1024, logger.NewNop())

	got, err := svc.Classify(context.Background(), pngHeader)
	require.NoError(t, err)
	assert.True(t, got.IsAI)
	assert.InDelta(t, 81.0, got.Confidence, 0.0001)
	assert.Equal(t, "image/png", labeler.mimeType)

	labeler.predictions = nil
	_, err = svc.Classify(context.Background(), pngHeader)
	assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)

	_, err = svc.Classify(context.Background(), nil)
	assert.ErrorIs(t, err, models.ErrNoImage)
}
