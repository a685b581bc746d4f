package streaming

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veritas-lab/internal/config"
	"veritas-lab/internal/domain/models"
	"veritas-lab/pkg/logger"
)

func receive(t *testing.T, ch <-chan *Event) *Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return nil
	}
}

func TestEventBusFiltersByType(t *testing.T) {
	bus := NewEventBus(nil, logger.NewNop())
	pub := NewEventBusPublisher(bus)

	reports, stopReports := bus.Subscribe(EventTypeReportSubmitted)
	defer stopReports()
	all, stopAll := bus.Subscribe()
	defer stopAll()
	assert.Equal(t, 2, bus.SubscriberCount())

	ctx := context.Background()
	require.NoError(t, pub.PublishChatScanned(ctx, &models.ChatScanResult{
		RedFlags:    []models.RedFlag{{Category: "Secrecy"}, {Category: "Guilt Trip"}},
		ThreatLevel: models.ThreatModerate,
	}))
	require.NoError(t, pub.PublishReportSubmitted(ctx, &models.Report{
		CaseID:      "VR-ABC-XYZ",
		Category:    models.ReportStalking,
		Platform:    "WhatsApp",
		Description: "secret details",
	}))

	ev := receive(t, all)
	assert.Equal(t, EventTypeChatScanned, ev.Type)
	data, ok := ev.Data.(ChatScannedData)
	require.True(t, ok)
	assert.Equal(t, 2, data.FlagCount)
	assert.Equal(t, []string{"Secrecy", "Guilt Trip"}, data.Categories)

	ev = receive(t, reports)
	assert.Equal(t, EventTypeReportSubmitted, ev.Type)
	assert.Equal(t, "VR-ABC-XYZ", ev.Data.(ReportSubmittedData).CaseID)
	assert.Equal(t, EventTypeReportSubmitted, receive(t, all).Type)
}

func TestEventBusImageAnalyzed(t *testing.T) {
	bus := NewEventBus(nil, logger.NewNop())
	ch, stop := bus.Subscribe(EventTypeImageAnalyzed)
	defer stop()

	a := &models.ImageAnalysis{
		ID:              uuid.New(),
		RiskLevel:       models.RiskMedium,
		ConfidenceScore: 70,
		IsFallback:      true,
		Display:         &models.DisplayAssessment{DisplayRisk: models.DisplayLikelyAI},
	}
	require.NoError(t, NewEventBusPublisher(bus).PublishImageAnalyzed(context.Background(), a))

	data := receive(t, ch).Data.(ImageAnalyzedData)
	assert.Equal(t, a.ID.String(), data.AnalysisID)
	assert.Equal(t, models.DisplayLikelyAI, data.DisplayRisk)
	assert.True(t, data.IsFallback)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := NewEventBus(nil, logger.NewNop())
	ch, stop := bus.Subscribe()
	stop()
	stop()

	_, open := <-ch
	assert.False(t, open)
	assert.Zero(t, bus.SubscriberCount())
}

func TestSubjectFor(t *testing.T) {
	subjects := config.NATSSubjectsConfig{
		ImageAnalyzed:   "veritas.image.analyzed",
		ChatScanned:     "veritas.chat.scanned",
		ReportSubmitted: "veritas.report.submitted",
	}

	s, err := SubjectFor(subjects, EventTypeImageAnalyzed)
	require.NoError(t, err)
	assert.Equal(t, "veritas.image.analyzed", s)

	s, err = SubjectFor(subjects, EventTypeReportSubmitted)
	require.NoError(t, err)
	assert.Equal(t, "veritas.report.submitted", s)

	_, err = SubjectFor(subjects, EventType("bogus"))
	assert.Error(t, err)
}
