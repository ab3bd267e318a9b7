package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/cart"
)

// CartItemModel stores one cart line. A cart is the set of lines of a user.
type CartItemModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Quantity  int       `gorm:"not null"`
	AddedAt   time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// CartFromModels rebuilds a cart from its stored lines
func CartFromModels(userID uuid.UUID, rows []CartItemModel) *cart.Cart {
	c := cart.New(userID)
	if len(rows) > 0 {
		c.UpdatedAt = time.Time{}
	}
	for _, row := range rows {
		c.Items = append(c.Items, cart.Item{
			ProductID: row.ProductID,
			Quantity:  row.Quantity,
			AddedAt:   row.AddedAt,
		})
		if row.UpdatedAt.After(c.UpdatedAt) {
			c.UpdatedAt = row.UpdatedAt
		}
	}
	return c
}

// CartItemModelsFromDomain flattens a cart into rows
func CartItemModelsFromDomain(c *cart.Cart) []CartItemModel {
	rows := make([]CartItemModel, 0, len(c.Items))
	for _, item := range c.Items {
		rows = append(rows, CartItemModel{
			UserID:    c.UserID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			AddedAt:   item.AddedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}
	return rows
}
