package event

import (
	"github.com/secureshop/backend/internal/domain/catalog"
	"github.com/secureshop/backend/internal/domain/identity"
	"github.com/secureshop/backend/internal/domain/inventory"
	"github.com/secureshop/backend/internal/domain/order"
	"github.com/secureshop/backend/internal/domain/shared"
)

// RegisterAllEvents registers every event the store emits so the outbox
// processor can decode stored payloads.
func RegisterAllEvents(s *EventSerializer) {
	// identity
	s.Register(identity.EventTypeUserRegistered, func() shared.DomainEvent { return &identity.UserRegisteredEvent{} })
	s.Register(identity.EventTypeUserPasswordChanged, func() shared.DomainEvent { return &identity.UserPasswordChangedEvent{} })
	s.Register(identity.EventTypeUserStatusChanged, func() shared.DomainEvent { return &identity.UserStatusChangedEvent{} })

	// catalog
	s.Register(catalog.EventTypeProductCreated, func() shared.DomainEvent { return &catalog.ProductCreatedEvent{} })
	s.Register(catalog.EventTypeProductPriceChanged, func() shared.DomainEvent { return &catalog.ProductPriceChangedEvent{} })
	s.Register(catalog.EventTypeProductStatusChanged, func() shared.DomainEvent { return &catalog.ProductStatusChangedEvent{} })
	s.Register(catalog.EventTypeProductDeleted, func() shared.DomainEvent { return &catalog.ProductDeletedEvent{} })

	// inventory
	s.Register(inventory.EventTypeStockAdjusted, func() shared.DomainEvent { return &inventory.StockAdjustedEvent{} })
	s.Register(inventory.EventTypeLowStock, func() shared.DomainEvent { return &inventory.LowStockEvent{} })

	// order
	s.Register(order.EventTypeOrderPlaced, func() shared.DomainEvent { return &order.OrderPlacedEvent{} })
	for _, t := range []string{order.EventTypeOrderConfirmed, order.EventTypeOrderShipped, order.EventTypeOrderDelivered} {
		s.Register(t, func() shared.DomainEvent { return &order.OrderStatusEvent{} })
	}
	s.Register(order.EventTypeOrderCancelled, func() shared.DomainEvent { return &order.OrderCancelledEvent{} })
	s.Register(order.EventTypeOrderPaid, func() shared.DomainEvent { return &order.OrderPaidEvent{} })
}
