package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/shared"
	"github.com/secureshop/backend/internal/domain/shared/valueobject"
)

// AggregateTypeOrder is the aggregate type recorded on order events
const AggregateTypeOrder = "Order"

const (
	EventTypeOrderPlaced    = "order.placed"
	EventTypeOrderConfirmed = "order.confirmed"
	EventTypeOrderShipped   = "order.shipped"
	EventTypeOrderDelivered = "order.delivered"
	EventTypeOrderCancelled = "order.cancelled"
	EventTypeOrderPaid      = "order.paid"
)

// EventLine is an order line as carried on events
type EventLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

func eventLines(o *Order) []EventLine {
	lines := make([]EventLine, len(o.Items))
	for i, it := range o.Items {
		lines[i] = EventLine{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return lines
}

// OrderPlacedEvent is published when an order is created
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	UserID        uuid.UUID         `json:"user_id"`
	GrandTotal    valueobject.Money `json:"grand_total"`
	PaymentMethod PaymentMethod     `json:"payment_method"`
	CouponCode    string            `json:"coupon_code,omitempty"`
	Lines         []EventLine       `json:"lines"`
}

func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		UserID:          o.UserID,
		GrandTotal:      o.GrandTotal,
		PaymentMethod:   o.PaymentMethod,
		CouponCode:      o.CouponCode,
		Lines:           eventLines(o),
	}
}

// OrderStatusEvent covers confirm, ship and deliver transitions
type OrderStatusEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
	Status Status    `json:"status"`
}

func NewOrderStatusEvent(eventType string, o *Order) *OrderStatusEvent {
	return &OrderStatusEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeOrder, o.ID),
		UserID:          o.UserID,
		Status:          o.Status,
	}
}

// OrderCancelledEvent is published when a pending order is cancelled
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID   `json:"user_id"`
	Reason string      `json:"reason,omitempty"`
	Lines  []EventLine `json:"lines"`
}

func NewOrderCancelledEvent(o *Order) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, o.ID),
		UserID:          o.UserID,
		Reason:          o.CancelReason,
		Lines:           eventLines(o),
	}
}

// OrderPaidEvent is published once per order when payment is confirmed
type OrderPaidEvent struct {
	shared.BaseDomainEvent
	UserID        uuid.UUID         `json:"user_id"`
	Amount        valueobject.Money `json:"amount"`
	PaymentMethod PaymentMethod     `json:"payment_method"`
	PaidAt        time.Time         `json:"paid_at"`
}

func NewOrderPaidEvent(o *Order, at time.Time) *OrderPaidEvent {
	return &OrderPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaid, AggregateTypeOrder, o.ID),
		UserID:          o.UserID,
		Amount:          o.GrandTotal,
		PaymentMethod:   o.PaymentMethod,
		PaidAt:          at,
	}
}
