package models

import (
	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/inventory"
	"github.com/secureshop/backend/internal/domain/shared"
)

// InventoryModel is the persistence model for inventory.Inventory
type InventoryModel struct {
	AggregateModel
	ProductID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	OnHand            int       `gorm:"not null;default:0;check:chk_inventory_on_hand,on_hand >= 0"`
	Reserved          int       `gorm:"not null;default:0;check:chk_inventory_reserved,reserved >= 0 AND reserved <= on_hand"`
	LowStockThreshold int       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InventoryModel) TableName() string {
	return "inventories"
}

// ToDomain converts the model to a domain inventory row
func (m *InventoryModel) ToDomain() *inventory.Inventory {
	return &inventory.Inventory{
		BaseAggregateRoot: m.ToAggregateRoot(),
		ProductID:         m.ProductID,
		OnHand:            m.OnHand,
		Reserved:          m.Reserved,
		LowStockThreshold: m.LowStockThreshold,
	}
}

// InventoryModelFromDomain creates a model from a domain inventory row
func InventoryModelFromDomain(inv *inventory.Inventory) *InventoryModel {
	m := &InventoryModel{
		ProductID:         inv.ProductID,
		OnHand:            inv.OnHand,
		Reserved:          inv.Reserved,
		LowStockThreshold: inv.LowStockThreshold,
	}
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	return m
}

// StockMovementModel is the append-only stock movement log
type StockMovementModel struct {
	BaseModel
	ProductID     uuid.UUID              `gorm:"type:uuid;not null;index"`
	Type          inventory.MovementType `gorm:"type:varchar(20);not null"`
	Quantity      int                    `gorm:"not null"`
	OnHandAfter   int                    `gorm:"not null"`
	ReservedAfter int                    `gorm:"not null"`
	OrderID       *uuid.UUID             `gorm:"type:uuid;index"`
	Note          string                 `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// ToDomain converts the model to a domain movement
func (m *StockMovementModel) ToDomain() *inventory.Movement {
	return &inventory.Movement{
		BaseEntity:    shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ProductID:     m.ProductID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		OnHandAfter:   m.OnHandAfter,
		ReservedAfter: m.ReservedAfter,
		OrderID:       m.OrderID,
		Note:          m.Note,
	}
}

// StockMovementModelFromDomain creates a model from a domain movement
func StockMovementModelFromDomain(mv *inventory.Movement) *StockMovementModel {
	m := &StockMovementModel{
		ProductID:     mv.ProductID,
		Type:          mv.Type,
		Quantity:      mv.Quantity,
		OnHandAfter:   mv.OnHandAfter,
		ReservedAfter: mv.ReservedAfter,
		OrderID:       mv.OrderID,
		Note:          mv.Note,
	}
	m.FromDomainBaseEntity(mv.BaseEntity)
	return m
}
