package event

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const requeueBatch = 100

// OutboxService lets admins inspect and requeue undelivered domain events
type OutboxService struct {
	repo   shared.OutboxRepository
	logger *zap.Logger
}

// NewOutboxService creates a new OutboxService
func NewOutboxService(repo shared.OutboxRepository, logger *zap.Logger) *OutboxService {
	return &OutboxService{repo: repo, logger: logger.Named("outbox-admin")}
}

// EntryResponse is an outbox entry without its payload
type EntryResponse struct {
	ID            uuid.UUID  `json:"id"`
	EventID       uuid.UUID  `json:"eventId"`
	EventType     string     `json:"eventType"`
	AggregateID   uuid.UUID  `json:"aggregateId"`
	AggregateType string     `json:"aggregateType"`
	Status        string     `json:"status"`
	RetryCount    int        `json:"retryCount"`
	LastError     string     `json:"lastError,omitempty"`
	NextRetryAt   *time.Time `json:"nextRetryAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// StatsResponse counts entries per delivery state
type StatsResponse struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Sent       int64 `json:"sent"`
	Failed     int64 `json:"failed"`
	Dead       int64 `json:"dead"`
	Total      int64 `json:"total"`
}

// DeadLetters pages through entries that exhausted their retries
func (s *OutboxService) DeadLetters(ctx context.Context, page, pageSize int) (shared.Paginated[EntryResponse], error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	entries, total, err := s.repo.FindDead(ctx, page, pageSize)
	if err != nil {
		return shared.Paginated[EntryResponse]{}, err
	}
	items := make([]EntryResponse, len(entries))
	for i, e := range entries {
		items[i] = toEntryResponse(e)
	}
	return shared.NewPaginated(items, total, page, pageSize), nil
}

// Requeue puts one dead entry back in the pending queue
func (s *OutboxService) Requeue(ctx context.Context, id uuid.UUID) (*EntryResponse, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := entry.ResetForRetry(); err != nil {
		return nil, shared.ErrInvalidState.WithMessage("Only dead entries can be requeued")
	}
	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, err
	}
	s.logger.Info("Outbox entry requeued", zap.String("entry_id", id.String()), zap.String("event_type", entry.EventType))
	resp := toEntryResponse(entry)
	return &resp, nil
}

// RequeueAll requeues every dead entry and reports how many moved
func (s *OutboxService) RequeueAll(ctx context.Context) (int, error) {
	var moved int
	for {
		// Requeued entries leave the dead set, so the first page keeps advancing
		entries, _, err := s.repo.FindDead(ctx, 1, requeueBatch)
		if err != nil {
			return moved, err
		}
		if len(entries) == 0 {
			break
		}
		progressed := false
		for _, e := range entries {
			if e.ResetForRetry() != nil {
				continue
			}
			if err := s.repo.Update(ctx, e); err != nil {
				s.logger.Warn("Failed to requeue outbox entry", zap.String("entry_id", e.ID.String()), zap.Error(err))
				continue
			}
			moved++
			progressed = true
		}
		if !progressed || len(entries) < requeueBatch {
			break
		}
	}
	s.logger.Info("Dead outbox entries requeued", zap.Int("count", moved))
	return moved, nil
}

// Stats counts entries by status
func (s *OutboxService) Stats(ctx context.Context) (*StatsResponse, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	resp := &StatsResponse{
		Pending:    counts[shared.OutboxStatusPending],
		Processing: counts[shared.OutboxStatusProcessing],
		Sent:       counts[shared.OutboxStatusSent],
		Failed:     counts[shared.OutboxStatusFailed],
		Dead:       counts[shared.OutboxStatusDead],
	}
	for _, n := range counts {
		resp.Total += n
	}
	return resp, nil
}

func toEntryResponse(e *shared.OutboxEntry) EntryResponse {
	return EntryResponse{
		ID:            e.ID,
		EventID:       e.EventID,
		EventType:     e.EventType,
		AggregateID:   e.AggregateID,
		AggregateType: e.AggregateType,
		Status:        string(e.Status),
		RetryCount:    e.RetryCount,
		LastError:     e.LastError,
		NextRetryAt:   e.NextRetryAt,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}
