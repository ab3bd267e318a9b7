package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/cart"
	"github.com/secureshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCartRepository implements cart.Repository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByUser rebuilds the cart from its lines in insertion order
func (r *GormCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	var rows []models.CartItemModel
	if err := conn(ctx, r.db).
		Where("user_id = ?", userID).
		Order("added_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return models.CartFromModels(userID, rows), nil
}

// Save replaces the stored lines with the lines of c
func (r *GormCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	write := func(db *gorm.DB) error {
		if err := db.Where("user_id = ?", c.UserID).Delete(&models.CartItemModel{}).Error; err != nil {
			return err
		}
		rows := models.CartItemModelsFromDomain(c)
		if len(rows) == 0 {
			return nil
		}
		return db.Create(&rows).Error
	}
	if tx, ok := TxFromContext(ctx); ok {
		return translateError(write(tx.WithContext(ctx)))
	}
	return translateError(r.db.WithContext(ctx).Transaction(write))
}

var _ cart.Repository = (*GormCartRepository)(nil)
