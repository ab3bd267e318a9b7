package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/shared"
	"github.com/secureshop/backend/internal/domain/shared/valueobject"
)

// Status is the fulfilment state of an order
type Status string

const (
	StatusPending            Status = "PENDING"
	StatusWaitingForDelivery Status = "WAITING_FOR_DELIVERY"
	StatusInTransit          Status = "IN_TRANSIT"
	StatusDelivered          Status = "DELIVERED"
	StatusCancelled          Status = "CANCELLED"
)

// IsValid checks if the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusWaitingForDelivery, StatusInTransit, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusWaitingForDelivery || target == StatusCancelled
	case StatusWaitingForDelivery:
		return target == StatusInTransit
	case StatusInTransit:
		return target == StatusDelivered
	}
	return false
}

// PaymentStatus tracks whether the order has been paid
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "UNPAID"
	PaymentPaid   PaymentStatus = "PAID"
	PaymentFailed PaymentStatus = "FAILED"
)

// IsValid checks if the payment status is known
func (s PaymentStatus) IsValid() bool {
	return s == PaymentUnpaid || s == PaymentPaid || s == PaymentFailed
}

var (
	ErrCartEmpty     = shared.NewDomainError("CART_EMPTY", "There are no items to order")
	ErrAlreadyPaid   = shared.NewDomainError("ORDER_ALREADY_PAID", "Order has already been paid")
	ErrOrderCanceled = shared.NewDomainError("ORDER_CANCELLED", "Order has been cancelled")
)

// Item is a purchased line with the price snapshotted at order time
type Item struct {
	ID           uuid.UUID
	OrderID      uuid.UUID
	ProductID    uuid.UUID
	SKU          string
	Name         string
	ThumbnailURL string
	UnitPrice    valueobject.Money
	Quantity     int
	LineTotal    valueobject.Money
}

// Order is a placed customer order.
type Order struct {
	shared.BaseAggregateRoot
	UserID         uuid.UUID
	Status         Status
	PaymentStatus  PaymentStatus
	PaymentMethod  PaymentMethod
	ShippingMethod ShippingMethod
	Subtotal       valueobject.Money
	DiscountTotal  valueobject.Money
	ShippingFee    valueobject.Money
	GrandTotal     valueobject.Money
	CouponCode     string
	Shipping       ShippingInfo
	Items          []Item
	HasPaid        bool
	ConfirmedAt    *time.Time
	ShippedAt      *time.Time
	DeliveredAt    *time.Time
	CancelledAt    *time.Time
	CancelReason   string
}

// Place creates a pending, unpaid order from a quote
func Place(userID uuid.UUID, quote *Quote, shipping ShippingInfo, shippingMethod ShippingMethod, paymentMethod PaymentMethod) (*Order, error) {
	if quote == nil || len(quote.Lines) == 0 {
		return nil, ErrCartEmpty
	}
	if !paymentMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method must be cod, bank_transfer or e_wallet")
	}
	if shippingMethod == "" {
		shippingMethod = ShippingStandard
	}
	shipping = shipping.Normalize()
	if err := shipping.Validate(); err != nil {
		return nil, err
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Status:            StatusPending,
		PaymentStatus:     PaymentUnpaid,
		PaymentMethod:     paymentMethod,
		ShippingMethod:    shippingMethod,
		Subtotal:          quote.Subtotal,
		DiscountTotal:     quote.Discount,
		ShippingFee:       quote.ShippingFee,
		GrandTotal:        quote.Total,
		CouponCode:        quote.CouponCode,
		Shipping:          shipping,
		Items:             make([]Item, 0, len(quote.Lines)),
	}
	for _, l := range quote.Lines {
		o.Items = append(o.Items, Item{
			ID:           uuid.New(),
			OrderID:      o.ID,
			ProductID:    l.ProductID,
			SKU:          l.SKU,
			Name:         l.Name,
			ThumbnailURL: l.ThumbnailURL,
			UnitPrice:    l.UnitPrice,
			Quantity:     l.Quantity,
			LineTotal:    l.Total(),
		})
	}
	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return o, nil
}

func (o *Order) transition(target Status) error {
	if !o.Status.CanTransitionTo(target) {
		return shared.ErrInvalidState.WithMessage(fmt.Sprintf("Cannot move order from %s to %s", o.Status, target))
	}
	o.Status = target
	o.MarkModified()
	return nil
}

// Confirm accepts the order for fulfilment
func (o *Order) Confirm() error {
	if err := o.transition(StatusWaitingForDelivery); err != nil {
		return err
	}
	now := time.Now()
	o.ConfirmedAt = &now
	o.AddDomainEvent(NewOrderStatusEvent(EventTypeOrderConfirmed, o))
	return nil
}

// Ship hands the order to the carrier
func (o *Order) Ship() error {
	if err := o.transition(StatusInTransit); err != nil {
		return err
	}
	now := time.Now()
	o.ShippedAt = &now
	o.AddDomainEvent(NewOrderStatusEvent(EventTypeOrderShipped, o))
	return nil
}

// Deliver completes the order. Cash on delivery is collected at this point.
func (o *Order) Deliver() error {
	if err := o.transition(StatusDelivered); err != nil {
		return err
	}
	now := time.Now()
	o.DeliveredAt = &now
	o.AddDomainEvent(NewOrderStatusEvent(EventTypeOrderDelivered, o))
	if o.PaymentMethod == PaymentCOD && !o.HasPaid {
		o.markPaid(now)
	}
	return nil
}

// Cancel aborts a pending order
func (o *Order) Cancel(reason string) error {
	if err := o.transition(StatusCancelled); err != nil {
		return err
	}
	now := time.Now()
	o.CancelledAt = &now
	o.CancelReason = reason
	o.AddDomainEvent(NewOrderCancelledEvent(o))
	return nil
}

// CheckPayable returns why the order cannot be paid online, or nil
func (o *Order) CheckPayable() error {
	if o.Status == StatusCancelled {
		return ErrOrderCanceled
	}
	if o.HasPaid || o.PaymentStatus == PaymentPaid {
		return ErrAlreadyPaid
	}
	return nil
}

// MarkPaid records a successful payment. It reports false when the order
// was already paid so callers can stay idempotent.
func (o *Order) MarkPaid() bool {
	if o.HasPaid {
		return false
	}
	o.markPaid(time.Now())
	return true
}

func (o *Order) markPaid(at time.Time) {
	o.HasPaid = true
	o.PaymentStatus = PaymentPaid
	o.MarkModified()
	o.AddDomainEvent(NewOrderPaidEvent(o, at))
}

// MarkPaymentFailed records a failed attempt on an unpaid order
func (o *Order) MarkPaymentFailed() {
	if o.HasPaid {
		return
	}
	o.PaymentStatus = PaymentFailed
	o.MarkModified()
}

// UpdateShipping changes the delivery address while the order is pending
func (o *Order) UpdateShipping(info ShippingInfo) error {
	if o.Status != StatusPending {
		return shared.ErrInvalidState.WithMessage("Shipping info can only change while the order is pending")
	}
	info = info.Normalize()
	if err := info.Validate(); err != nil {
		return err
	}
	o.Shipping = info
	o.MarkModified()
	return nil
}

// CanDelete is true only for cancelled orders
func (o *Order) CanDelete() bool {
	return o.Status == StatusCancelled
}

// OwnedBy reports whether userID placed the order
func (o *Order) OwnedBy(userID uuid.UUID) bool {
	return o.UserID == userID
}

// Contains reports whether the order has a line for productID
func (o *Order) Contains(productID uuid.UUID) bool {
	for _, it := range o.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

// Quantities sums the ordered quantity per product
func (o *Order) Quantities() map[uuid.UUID]int {
	q := make(map[uuid.UUID]int, len(o.Items))
	for _, it := range o.Items {
		q[it.ProductID] += it.Quantity
	}
	return q
}

// ProductIDs lists the ordered products
func (o *Order) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(o.Items))
	for id := range o.Quantities() {
		ids = append(ids, id)
	}
	return ids
}
