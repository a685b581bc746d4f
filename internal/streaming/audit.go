package streaming

import (
	"context"

	"veritas-lab/internal/metrics"
	"veritas-lab/pkg/logger"
)

// AuditLog consumes every event on the bus and writes one structured log
// line per event. Payloads are already stripped of user content.
type AuditLog struct {
	bus    *EventBus
	logger *logger.Logger
	done   chan struct{}
}

// NewAuditLog creates an audit consumer for bus
func NewAuditLog(bus *EventBus, log *logger.Logger) *AuditLog {
	return &AuditLog{
		bus:    bus,
		logger: log.WithComponent("audit"),
		done:   make(chan struct{}),
	}
}

// Start subscribes before returning so no event published afterwards is
// missed. The consumer stops when ctx ends or the bus is closed.
func (a *AuditLog) Start(ctx context.Context) {
	events, unsubscribe := a.bus.Subscribe()
	go func() {
		defer close(a.done)
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				a.record(ev)
			}
		}
	}()
}

// Done is closed once the consumer has stopped
func (a *AuditLog) Done() <-chan struct{} {
	return a.done
}

func (a *AuditLog) record(ev *Event) {
	metrics.Events.WithLabelValues(string(ev.Type)).Inc()

	entry := a.logger.Info().
		Str("event_id", ev.ID).
		Str("event_type", string(ev.Type)).
		Time("event_time", ev.Timestamp)

	switch d := ev.Data.(type) {
	case ImageAnalyzedData:
		entry = entry.Str("analysis_id", d.AnalysisID).
			Str("risk_level", string(d.RiskLevel)).
			Int("confidence", d.ConfidenceScore).
			Bool("fallback", d.IsFallback)
	case ChatScannedData:
		entry = entry.Str("threat_level", string(d.ThreatLevel)).
			Int("flags", d.FlagCount)
	case ReportSubmittedData:
		entry = entry.Str("case_id", d.CaseID).
			Str("category", string(d.Category))
	}
	entry.Msg("event")
}
