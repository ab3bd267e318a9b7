package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/catalog"
	"github.com/secureshop/backend/internal/domain/inventory"
)

// InventoryResponse represents the stock of one product in API responses
type InventoryResponse struct {
	ProductID         uuid.UUID `json:"productId"`
	SKU               string    `json:"sku,omitempty"`
	ProductName       string    `json:"productName,omitempty"`
	OnHand            int       `json:"onHand"`
	Reserved          int       `json:"reserved"`
	Available         int       `json:"available"`
	LowStockThreshold int       `json:"lowStockThreshold"`
	LowStock          bool      `json:"lowStock"`
	UpdatedAt         time.Time `json:"updatedAt"`
	Version           int       `json:"version"`
}

// InventoryListFilter represents filter options for the stock list
type InventoryListFilter struct {
	Search   string `form:"search" binding:"max=100"`
	LowStock bool   `form:"lowStock"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// AdjustStockRequest changes on-hand stock by a signed delta
type AdjustStockRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"max=255"`
}

// SetThresholdRequest sets the low stock alert level
type SetThresholdRequest struct {
	Threshold int `json:"threshold" binding:"min=0"`
}

// MovementResponse is one entry of the stock movement log
type MovementResponse struct {
	ID            uuid.UUID  `json:"id"`
	ProductID     uuid.UUID  `json:"productId"`
	Type          string     `json:"type"`
	Quantity      int        `json:"quantity"`
	OnHandAfter   int        `json:"onHandAfter"`
	ReservedAfter int        `json:"reservedAfter"`
	OrderID       *uuid.UUID `json:"orderId,omitempty"`
	Note          string     `json:"note,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// ToInventoryResponse converts a domain row. product may be nil.
func ToInventoryResponse(inv *inventory.Inventory, product *catalog.Product) InventoryResponse {
	resp := InventoryResponse{
		ProductID:         inv.ProductID,
		OnHand:            inv.OnHand,
		Reserved:          inv.Reserved,
		Available:         inv.Available(),
		LowStockThreshold: inv.LowStockThreshold,
		LowStock:          inv.IsLowStock(),
		UpdatedAt:         inv.UpdatedAt,
		Version:           inv.Version,
	}
	if product != nil {
		resp.SKU = product.SKU
		resp.ProductName = product.Name
	}
	return resp
}

// ToMovementResponse converts a movement log entry
func ToMovementResponse(m *inventory.Movement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Type:          string(m.Type),
		Quantity:      m.Quantity,
		OnHandAfter:   m.OnHandAfter,
		ReservedAfter: m.ReservedAfter,
		OrderID:       m.OrderID,
		Note:          m.Note,
		CreatedAt:     m.CreatedAt,
	}
}
