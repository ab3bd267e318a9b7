package payment

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists payments, one per order
type Repository interface {
	Save(ctx context.Context, p *Payment) error
	FindByOrder(ctx context.Context, orderID uuid.UUID) (*Payment, error)
}
