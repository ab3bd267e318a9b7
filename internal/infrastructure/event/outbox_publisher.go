package event

import (
	"context"

	"github.com/secureshop/backend/internal/domain/shared"
)

// OutboxPublisher writes domain events to the outbox. The repository joins
// the transaction carried by ctx, so entries commit with the aggregate.
type OutboxPublisher struct {
	repo       shared.OutboxRepository
	serializer *EventSerializer
	maxRetries int
}

// NewOutboxPublisher creates a publisher. A maxRetries of zero keeps the
// entry default.
func NewOutboxPublisher(repo shared.OutboxRepository, serializer *EventSerializer, maxRetries int) *OutboxPublisher {
	return &OutboxPublisher{repo: repo, serializer: serializer, maxRetries: maxRetries}
}

// SaveEvents serializes events and stores them as pending entries
func (p *OutboxPublisher) SaveEvents(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, ev := range events {
		payload, err := p.serializer.Serialize(ev)
		if err != nil {
			return err
		}
		entry := shared.NewOutboxEntry(ev, payload)
		if p.maxRetries > 0 {
			entry.MaxRetries = p.maxRetries
		}
		entries = append(entries, entry)
	}
	return p.repo.Save(ctx, entries...)
}

var _ shared.OutboxEventSaver = (*OutboxPublisher)(nil)
