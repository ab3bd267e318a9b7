package support

import (
	"context"

	"github.com/google/uuid"
)

// TicketFilter narrows ticket listings
type TicketFilter struct {
	UserID   *uuid.UUID
	Status   *TicketStatus
	Search   string
	Page     int
	PageSize int
}

// TicketRepository persists tickets
type TicketRepository interface {
	Create(ctx context.Context, t *Ticket) error
	Update(ctx context.Context, t *Ticket) error
	FindByID(ctx context.Context, id uuid.UUID) (*Ticket, error)
	FindAll(ctx context.Context, filter TicketFilter) ([]*Ticket, int64, error)
}

// WarrantyFilter narrows warranty listings
type WarrantyFilter struct {
	UserID   *uuid.UUID
	Status   *WarrantyStatus
	Page     int
	PageSize int
}

// WarrantyRepository persists warranty requests
type WarrantyRepository interface {
	Create(ctx context.Context, w *WarrantyRequest) error
	Update(ctx context.Context, w *WarrantyRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*WarrantyRequest, error)
	FindAll(ctx context.Context, filter WarrantyFilter) ([]*WarrantyRequest, int64, error)
	// ExistsOpen reports a SUBMITTED or APPROVED request for the same item
	ExistsOpen(ctx context.Context, orderID, productID uuid.UUID) (bool, error)
}
