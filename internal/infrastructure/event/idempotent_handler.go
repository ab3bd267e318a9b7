package event

import (
	"context"
	"sync/atomic"

	"github.com/secureshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// IdempotencyStats counts how a wrapped handler treated its events
type IdempotencyStats struct {
	Processed int64 `json:"processed"`
	Duplicate int64 `json:"duplicate"`
	Failed    int64 `json:"failed"`
}

// IdempotentHandler runs the wrapped handler at most once per event. The
// claim key includes the handler name, so a retried outbox entry reaches
// only the handlers that failed on the previous attempt.
type IdempotentHandler struct {
	handler shared.EventHandler
	store   shared.IdempotencyStore
	config  shared.IdempotencyConfig
	logger  *zap.Logger

	processed atomic.Int64
	duplicate atomic.Int64
	failed    atomic.Int64
}

// NewIdempotentHandler wraps handler with claims kept in store
func NewIdempotentHandler(handler shared.EventHandler, store shared.IdempotencyStore, config shared.IdempotencyConfig, logger *zap.Logger) *IdempotentHandler {
	return &IdempotentHandler{
		handler: handler,
		store:   store,
		config:  config,
		logger:  logger,
	}
}

// Name reports the wrapped handler's name
func (h *IdempotentHandler) Name() string { return HandlerName(h.handler) }

// EventTypes returns the wrapped handler's event types
func (h *IdempotentHandler) EventTypes() []string { return h.handler.EventTypes() }

// Handle claims the event, runs the handler and releases the claim on failure
func (h *IdempotentHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	if !h.config.Enabled {
		return h.handler.Handle(ctx, ev)
	}

	key := "event:" + h.Name() + ":" + ev.EventID().String()
	fresh, err := h.store.MarkProcessed(ctx, key, h.config.TTL)
	if err != nil {
		// A store outage must not drop events; handlers tolerate replays.
		h.logger.Warn("idempotency check failed, handling anyway",
			zap.String("event_id", ev.EventID().String()),
			zap.Error(err),
		)
	} else if !fresh {
		h.duplicate.Add(1)
		h.logger.Debug("duplicate event skipped",
			zap.String("event_id", ev.EventID().String()),
			zap.String("handler", h.Name()),
		)
		return nil
	}

	if err := h.handler.Handle(ctx, ev); err != nil {
		h.failed.Add(1)
		if relErr := h.store.Release(ctx, key); relErr != nil {
			h.logger.Warn("failed to release idempotency key", zap.String("key", key), zap.Error(relErr))
		}
		return err
	}
	h.processed.Add(1)
	return nil
}

// Stats returns a snapshot of the counters
func (h *IdempotentHandler) Stats() IdempotencyStats {
	return IdempotencyStats{
		Processed: h.processed.Load(),
		Duplicate: h.duplicate.Load(),
		Failed:    h.failed.Load(),
	}
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)
