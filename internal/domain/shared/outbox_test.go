package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	BaseDomainEvent
}

func newTestEntry() *OutboxEntry {
	evt := &testEvent{BaseDomainEvent: NewBaseDomainEvent("test.happened", "Test", uuid.New())}
	return NewOutboxEntry(evt, []byte(`{}`))
}

func TestNewOutboxEntry(t *testing.T) {
	evt := &testEvent{BaseDomainEvent: NewBaseDomainEvent("order.placed", "Order", uuid.New())}
	entry := NewOutboxEntry(evt, []byte(`{"a":1}`))

	assert.Equal(t, evt.EventID(), entry.EventID)
	assert.Equal(t, "order.placed", entry.EventType)
	assert.Equal(t, "Order", entry.AggregateType)
	assert.Equal(t, OutboxStatusPending, entry.Status)
	assert.Equal(t, DefaultMaxRetries, entry.MaxRetries)
}

func TestOutboxEntry_MarkFailed(t *testing.T) {
	t.Run("schedules retry with backoff", func(t *testing.T) {
		entry := newTestEntry()
		require.NoError(t, entry.MarkProcessing())

		entry.MarkFailed("boom")

		assert.Equal(t, OutboxStatusFailed, entry.Status)
		assert.Equal(t, 1, entry.RetryCount)
		assert.Equal(t, "boom", entry.LastError)
		require.NotNil(t, entry.NextRetryAt)
		assert.WithinDuration(t, time.Now().Add(DefaultBaseBackoff), *entry.NextRetryAt, 500*time.Millisecond)
		assert.True(t, entry.CanRetry())
	})

	t.Run("goes dead after max retries", func(t *testing.T) {
		entry := newTestEntry()
		for i := 0; i < DefaultMaxRetries; i++ {
			entry.MarkFailed("still failing")
		}
		assert.True(t, entry.IsDead())
		assert.Nil(t, entry.NextRetryAt)
		assert.False(t, entry.CanRetry())
	})
}

func TestOutboxEntry_ResetForRetry(t *testing.T) {
	t.Run("resets dead letter entry", func(t *testing.T) {
		entry := newTestEntry()
		entry.Status = OutboxStatusDead
		entry.RetryCount = 5
		entry.LastError = "some error"

		require.NoError(t, entry.ResetForRetry())
		assert.Equal(t, OutboxStatusPending, entry.Status)
		assert.Equal(t, 0, entry.RetryCount)
		assert.Empty(t, entry.LastError)
	})

	t.Run("fails for non-dead entry", func(t *testing.T) {
		for _, status := range []OutboxStatus{OutboxStatusPending, OutboxStatusProcessing, OutboxStatusSent, OutboxStatusFailed} {
			entry := &OutboxEntry{Status: status}
			err := entry.ResetForRetry()
			assert.Error(t, err)
		}
	})
}

func TestOutboxEntry_MarkProcessing(t *testing.T) {
	entry := newTestEntry()
	entry.MarkSent()
	assert.Error(t, entry.MarkProcessing())
	assert.NotNil(t, entry.ProcessedAt)
}
