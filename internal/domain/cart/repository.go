package cart

import (
	"context"

	"github.com/google/uuid"
)

// Repository stores one cart per user
type Repository interface {
	// FindByUser returns the cart, or an empty cart when none exists
	FindByUser(ctx context.Context, userID uuid.UUID) (*Cart, error)
	// Save replaces every stored line of the cart
	Save(ctx context.Context, cart *Cart) error
}
