package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/shared/valueobject"
)

// Filter narrows order listings
type Filter struct {
	UserID        *uuid.UUID
	Status        *Status
	PaymentStatus *PaymentStatus
	// PaymentStatuses matches any of the listed statuses
	PaymentStatuses []PaymentStatus
	PaymentMethod   *PaymentMethod
	From            *time.Time
	To              *time.Time
	// Search matches the order id prefix, customer name, phone or email
	Search string
	// OldestFirst sorts by creation time ascending instead of newest first
	OldestFirst bool
	Page        int
	PageSize    int
}

// Stats aggregates orders created within a period
type Stats struct {
	TotalOrders     int64
	PendingOrders   int64
	CompletedOrders int64
	CancelledOrders int64
	// Revenue sums grand totals of paid, non-cancelled orders
	Revenue    valueobject.Money
	PaidOrders int64
}

// Repository persists orders with their items
type Repository interface {
	Create(ctx context.Context, o *Order) error
	// Update saves header fields with optimistic locking on Version
	Update(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindByIDForUpdate locks the order row for the current transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)
	FindAll(ctx context.Context, filter Filter) ([]*Order, int64, error)
	// HasDeliveredItem reports whether the user has a delivered order
	// containing productID and returns that order's id
	HasDeliveredItem(ctx context.Context, userID, productID uuid.UUID) (*uuid.UUID, error)
	Stats(ctx context.Context, from, to time.Time) (Stats, error)
	CountDistinctCustomers(ctx context.Context, from, to time.Time) (int64, error)
}
