package event

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/secureshop/backend/internal/domain/shared"
)

// Factory returns a zero event to decode a payload into
type Factory func() shared.DomainEvent

// EventSerializer turns domain events into JSON outbox payloads and back.
// Decoding needs the event type to have been registered.
type EventSerializer struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewEventSerializer creates a serializer with no registered types
func NewEventSerializer() *EventSerializer {
	return &EventSerializer{factories: make(map[string]Factory)}
}

// Register binds eventType to a factory for its concrete struct
func (s *EventSerializer) Register(eventType string, f Factory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.factories[eventType] = f
}

// Serialize encodes an event as JSON
func (s *EventSerializer) Serialize(ev shared.DomainEvent) ([]byte, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", ev.EventType(), err)
	}
	return b, nil
}

// Deserialize decodes a payload stored for eventType
func (s *EventSerializer) Deserialize(eventType string, data []byte) (shared.DomainEvent, error) {
	s.mu.RLock()
	f, ok := s.factories[eventType]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	ev := f()
	if err := json.Unmarshal(data, ev); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", eventType, err)
	}
	return ev, nil
}

// IsRegistered checks if eventType can be decoded
func (s *EventSerializer) IsRegistered(eventType string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.factories[eventType]
	return ok
}

// RegisteredTypes returns the registered event types in sorted order
func (s *EventSerializer) RegisteredTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	types := make([]string, 0, len(s.factories))
	for t := range s.factories {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}
