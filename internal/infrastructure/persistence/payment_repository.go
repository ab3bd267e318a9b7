package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/payment"
	"github.com/secureshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPaymentRepository implements payment.Repository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Save inserts or overwrites the payment of an order. Callers hold the
// order row lock, which serializes writers of the same payment.
func (r *GormPaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	return translateError(conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(models.PaymentModelFromDomain(p)).Error)
}

// FindByOrder finds the payment of an order
func (r *GormPaymentRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*payment.Payment, error) {
	var model models.PaymentModel
	if err := conn(ctx, r.db).Where("order_id = ?", orderID).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

var _ payment.Repository = (*GormPaymentRepository)(nil)
