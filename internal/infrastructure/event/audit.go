package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/shop/backend/internal/domain/shared"
)

// AuditLogHandler writes every domain event to the structured log,
// giving operators a trail of orders placed, users registered and so on.
type AuditLogHandler struct {
	logger *zap.Logger
}

// NewAuditLogHandler creates an audit log handler
func NewAuditLogHandler(logger *zap.Logger) *AuditLogHandler {
	return &AuditLogHandler{logger: logger.Named("audit")}
}

// Handle logs the event
func (h *AuditLogHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.logger.Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

// EventTypes returns an empty list, subscribing the handler to all events
func (h *AuditLogHandler) EventTypes() []string {
	return nil
}

var _ shared.EventHandler = (*AuditLogHandler)(nil)
