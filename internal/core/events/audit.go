package events

import (
	"context"
	"log/slog"
)

// RegisterAuditLogger subscribes a structured audit trail to the report and
// access events. Failures never propagate back to publishers.
func RegisterAuditLogger(bus *EventBus, logger *slog.Logger) {
	handler := func(ctx context.Context, event Event) error {
		logger.Info("audit",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"occurred_at", event.OccurredAt(),
			"payload", event.Payload())
		return nil
	}

	for _, eventType := range []string{
		EventTypeReportCreated,
		EventTypeReportUpdated,
		EventTypeReportDeleted,
		EventTypeAccessRequested,
	} {
		bus.Subscribe(eventType, handler)
	}
}
