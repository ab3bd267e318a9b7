package inventory

import (
	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/shared"
)

const AggregateTypeInventory = "Inventory"

const (
	EventTypeStockAdjusted = "inventory.adjusted"
	EventTypeLowStock      = "inventory.low_stock"
)

// StockAdjustedEvent is published on a manual stock adjustment
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Delta     int       `json:"delta"`
	OnHand    int       `json:"on_hand"`
	Reason    string    `json:"reason,omitempty"`
}

func NewStockAdjustedEvent(i *Inventory, delta int, reason string) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeInventory, i.ID),
		ProductID:       i.ProductID,
		Delta:           delta,
		OnHand:          i.OnHand,
		Reason:          reason,
	}
}

// LowStockEvent is published when shipping leaves stock at or below the threshold
type LowStockEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Available int       `json:"available"`
	Threshold int       `json:"threshold"`
}

func NewLowStockEvent(i *Inventory) *LowStockEvent {
	return &LowStockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLowStock, AggregateTypeInventory, i.ID),
		ProductID:       i.ProductID,
		Available:       i.Available(),
		Threshold:       i.LowStockThreshold,
	}
}
