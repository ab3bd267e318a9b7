package inventory

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows inventory listings
type Filter struct {
	// LowStock keeps rows whose availability is at or below their threshold
	LowStock bool
	Search   string
	Page     int
	PageSize int
}

// Repository persists inventory rows
type Repository interface {
	Create(ctx context.Context, inv *Inventory) error
	Save(ctx context.Context, inv *Inventory) error
	FindByProduct(ctx context.Context, productID uuid.UUID) (*Inventory, error)
	FindByProducts(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]*Inventory, error)
	// LockByProducts loads rows with SELECT ... FOR UPDATE, locking in
	// ascending product id order. It must run inside a transaction.
	LockByProducts(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]*Inventory, error)
	FindAll(ctx context.Context, filter Filter) ([]*Inventory, int64, error)
	CountInStock(ctx context.Context) (inStock int64, outOfStock int64, err error)
}

// MovementRepository stores the stock movement log
type MovementRepository interface {
	Append(ctx context.Context, movements ...*Movement) error
	FindByProduct(ctx context.Context, productID uuid.UUID, page, pageSize int) ([]*Movement, int64, error)
}
