package event

import (
	"context"

	"github.com/secureshop/backend/internal/domain/shared"
	"github.com/secureshop/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// AuditHandler writes one structured log line per domain event
type AuditHandler struct {
	logger *zap.Logger
}

// NewAuditHandler creates an audit handler
func NewAuditHandler(l *zap.Logger) *AuditHandler {
	return &AuditHandler{logger: l.Named("audit")}
}

func (h *AuditHandler) Name() string { return "audit" }

// EventTypes is empty: the audit trail covers every event
func (h *AuditHandler) EventTypes() []string { return nil }

func (h *AuditHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_id", ev.EventID().String()),
		zap.String("event_type", ev.EventType()),
		zap.String("aggregate_type", ev.AggregateType()),
		zap.String("aggregate_id", ev.AggregateID().String()),
		zap.Time("occurred_at", ev.OccurredAt()),
	}
	if v, ok := ev.(shared.VersionedEvent); ok {
		fields = append(fields, zap.Int("schema_version", v.SchemaVersion()))
	}
	logger.WithLogger(ctx, h.logger).Info("domain event", fields...)
	return nil
}
