package inventory

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/shared"
)

// DefaultLowStockThreshold is used when no threshold is configured
const DefaultLowStockThreshold = 5

// Inventory tracks the stock of one product.
// Invariant: 0 <= Reserved <= OnHand.
type Inventory struct {
	shared.BaseAggregateRoot
	ProductID         uuid.UUID
	OnHand            int
	Reserved          int
	LowStockThreshold int
}

// NewInventory creates stock for a product
func NewInventory(productID uuid.UUID, onHand int) (*Inventory, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if onHand < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "On hand quantity cannot be negative")
	}
	return &Inventory{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		OnHand:            onHand,
		LowStockThreshold: DefaultLowStockThreshold,
	}, nil
}

// Available is the quantity that can still be reserved
func (i *Inventory) Available() int {
	return i.OnHand - i.Reserved
}

func (i *Inventory) InStock() bool { return i.Available() > 0 }

// IsLowStock reports availability at or below the threshold
func (i *Inventory) IsLowStock() bool {
	return i.Available() <= i.LowStockThreshold
}

// Adjust changes on-hand stock by delta. Stock already reserved for
// orders cannot be adjusted away.
func (i *Inventory) Adjust(delta int, reason string) (*Movement, error) {
	if delta == 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment cannot be zero")
	}
	next := i.OnHand + delta
	if next < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "On hand quantity cannot become negative")
	}
	if next < i.Reserved {
		return nil, shared.ErrInsufficientStock.WithMessage(
			fmt.Sprintf("Cannot reduce stock below the %d units reserved for orders", i.Reserved))
	}
	i.OnHand = next
	i.MarkModified()
	i.AddDomainEvent(NewStockAdjustedEvent(i, delta, reason))
	return i.record(MovementAdjust, delta, nil, reason), nil
}

// Reserve holds q units for an order
func (i *Inventory) Reserve(q int, orderID uuid.UUID) (*Movement, error) {
	if q <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if q > i.Available() {
		return nil, shared.ErrInsufficientStock.WithDetails(map[string]any{
			"product_id": i.ProductID.String(),
			"requested":  q,
			"available":  i.Available(),
		})
	}
	i.Reserved += q
	i.MarkModified()
	return i.record(MovementReserve, q, &orderID, ""), nil
}

// Release returns up to q reserved units to available stock
func (i *Inventory) Release(q int, orderID uuid.UUID) (*Movement, error) {
	if q <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if q > i.Reserved {
		q = i.Reserved
	}
	i.Reserved -= q
	i.MarkModified()
	return i.record(MovementRelease, q, &orderID, ""), nil
}

// Consume ships q reserved units, removing them from on-hand stock
func (i *Inventory) Consume(q int, orderID uuid.UUID) (*Movement, error) {
	if q <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if q > i.Reserved {
		return nil, shared.ErrInvalidState.WithMessage("Cannot consume more than the reserved quantity")
	}
	i.Reserved -= q
	i.OnHand -= q
	i.MarkModified()
	if i.IsLowStock() {
		i.AddDomainEvent(NewLowStockEvent(i))
	}
	return i.record(MovementConsume, q, &orderID, ""), nil
}

// SetLowStockThreshold changes the alert threshold
func (i *Inventory) SetLowStockThreshold(threshold int) error {
	if threshold < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Threshold cannot be negative")
	}
	i.LowStockThreshold = threshold
	i.MarkModified()
	return nil
}

func (i *Inventory) record(kind MovementType, q int, orderID *uuid.UUID, note string) *Movement {
	return &Movement{
		BaseEntity:    shared.NewBaseEntity(),
		ProductID:     i.ProductID,
		Type:          kind,
		Quantity:      q,
		OnHandAfter:   i.OnHand,
		ReservedAfter: i.Reserved,
		OrderID:       orderID,
		Note:          note,
	}
}
