package testutil

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMockEventHandler(t *testing.T) {
	handler := NewMockEventHandler("order.placed", "order.cancelled")

	assert.Equal(t, []string{"order.placed", "order.cancelled"}, handler.EventTypes())
	assert.Equal(t, 0, handler.HandledCount())
}

func TestMockEventHandler_Handle(t *testing.T) {
	handler := NewMockEventHandler("order.placed")
	event := NewTestEvent("order.placed")

	err := handler.Handle(context.Background(), event)

	require.NoError(t, err)
	assert.Equal(t, 1, handler.HandledCount())
	assert.Equal(t, event, handler.Handled()[0])
}

func TestMockEventHandler_SetError(t *testing.T) {
	handler := NewMockEventHandler("order.placed")
	boom := errors.New("boom")
	handler.SetError(boom)

	err := handler.Handle(context.Background(), NewTestEvent("order.placed"))

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, handler.HandledCount(), "failed events are still recorded")
}

func TestMockEventHandler_Reset(t *testing.T) {
	handler := NewMockEventHandler("order.placed")
	handler.SetError(errors.New("boom"))
	_ = handler.Handle(context.Background(), NewTestEvent("order.placed"))

	handler.Reset()

	assert.Equal(t, 0, handler.HandledCount())
	assert.NoError(t, handler.Handle(context.Background(), NewTestEvent("order.placed")))
}

func TestNewTestEvent(t *testing.T) {
	event := NewTestEvent("payment.succeeded")

	assert.NotEqual(t, uuid.Nil, event.EventID())
	assert.NotEqual(t, uuid.Nil, event.AggregateID())
	assert.Equal(t, "payment.succeeded", event.EventType())
	assert.Equal(t, "TestAggregate", event.AggregateType())
	assert.False(t, event.OccurredAt().IsZero())
	assert.Equal(t, "test-data", event.Data)
}

func TestNewTestEventWithID(t *testing.T) {
	eventID := uuid.New()
	event := NewTestEventWithID(eventID, "order.shipped")

	assert.Equal(t, eventID, event.EventID())
	assert.Equal(t, "order.shipped", event.EventType())
}

func TestEventTypesOf(t *testing.T) {
	events := []shared.DomainEvent{NewTestEvent("a"), NewTestEvent("b")}

	assert.Equal(t, []string{"a", "b"}, EventTypesOf(events))
	assert.Empty(t, EventTypesOf(nil))
}

func TestWaitForCondition(t *testing.T) {
	t.Run("condition met", func(t *testing.T) {
		var counter atomic.Int32
		go func() {
			time.Sleep(20 * time.Millisecond)
			counter.Store(1)
		}()

		result := WaitForCondition(t, func() bool {
			return counter.Load() == 1
		}, 200*time.Millisecond, 10*time.Millisecond)

		assert.True(t, result)
	})

	t.Run("condition not met within timeout", func(t *testing.T) {
		result := WaitForCondition(t, func() bool {
			return false
		}, 50*time.Millisecond, 10*time.Millisecond)

		assert.False(t, result)
	})
}

func TestWaitForEventCount(t *testing.T) {
	handler := NewMockEventHandler("order.placed")

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = handler.Handle(context.Background(), NewTestEvent("order.placed"))
		_ = handler.Handle(context.Background(), NewTestEvent("order.placed"))
	}()

	result := WaitForEventCount(t, handler, 2, 200*time.Millisecond)
	assert.True(t, result)
}
