package promotion

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows discount listings
type Filter struct {
	Search   string
	Active   *bool
	Page     int
	PageSize int
}

// Repository persists discounts and their usage
type Repository interface {
	Create(ctx context.Context, d *Discount) error
	Update(ctx context.Context, d *Discount) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Discount, error)
	// FindByCode matches the normalized code
	FindByCode(ctx context.Context, code string) (*Discount, error)
	// FindByCodeForUpdate locks the row for the current transaction
	FindByCodeForUpdate(ctx context.Context, code string) (*Discount, error)
	FindAll(ctx context.Context, filter Filter) ([]*Discount, int64, error)
	ExistsByCode(ctx context.Context, code string, excludeID *uuid.UUID) (bool, error)
	RecordUsage(ctx context.Context, usage *Usage) error
	CountUsageByUser(ctx context.Context, discountID, userID uuid.UUID) (int, error)
}
