package event

import (
	"context"

	"github.com/lending/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LoggingEventHandler logs every published domain event. It subscribes
// as a wildcard handler and is mainly useful for tracing event flow.
type LoggingEventHandler struct {
	logger *zap.Logger
}

// NewLoggingEventHandler creates a handler that logs all domain events
func NewLoggingEventHandler(logger *zap.Logger) *LoggingEventHandler {
	return &LoggingEventHandler{logger: logger}
}

// Handle logs the event
func (h *LoggingEventHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.logger.Info("domain event published",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

// EventTypes returns an empty slice so the handler receives all events
func (h *LoggingEventHandler) EventTypes() []string {
	return nil
}
