package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/promotion"
	"github.com/secureshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDiscountRepository implements promotion.Repository using GORM
type GormDiscountRepository struct {
	db *gorm.DB
}

// NewGormDiscountRepository creates a new GormDiscountRepository
func NewGormDiscountRepository(db *gorm.DB) *GormDiscountRepository {
	return &GormDiscountRepository{db: db}
}

// Create inserts a discount
func (r *GormDiscountRepository) Create(ctx context.Context, d *promotion.Discount) error {
	return translateError(conn(ctx, r.db).Create(models.DiscountModelFromDomain(d)).Error)
}

// Update saves a discount with optimistic locking
func (r *GormDiscountRepository) Update(ctx context.Context, d *promotion.Discount) error {
	return updateVersioned(conn(ctx, r.db), models.DiscountModelFromDomain(d), d.ID, d.Version)
}

// Delete removes a discount
func (r *GormDiscountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(conn(ctx, r.db), &models.DiscountModel{}, id)
}

// FindByID finds a discount by ID
func (r *GormDiscountRepository) FindByID(ctx context.Context, id uuid.UUID) (*promotion.Discount, error) {
	var model models.DiscountModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByCode finds a discount by normalized code
func (r *GormDiscountRepository) FindByCode(ctx context.Context, code string) (*promotion.Discount, error) {
	return r.findByCode(conn(ctx, r.db), code)
}

// FindByCodeForUpdate locks the discount row for the current transaction
func (r *GormDiscountRepository) FindByCodeForUpdate(ctx context.Context, code string) (*promotion.Discount, error) {
	return r.findByCode(forUpdate(conn(ctx, r.db)), code)
}

func (r *GormDiscountRepository) findByCode(db *gorm.DB, code string) (*promotion.Discount, error) {
	var model models.DiscountModel
	if err := db.Where("code = ?", promotion.NormalizeCode(code)).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists discounts, newest first
func (r *GormDiscountRepository) FindAll(ctx context.Context, filter promotion.Filter) ([]*promotion.Discount, int64, error) {
	query := search(conn(ctx, r.db).Model(&models.DiscountModel{}), filter.Search, "code", "description")
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.DiscountModel
	if err := paginate(query.Order("created_at DESC"), filter.Page, filter.PageSize).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*promotion.Discount, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, total, nil
}

// ExistsByCode checks if a normalized code is taken, ignoring excludeID
func (r *GormDiscountRepository) ExistsByCode(ctx context.Context, code string, excludeID *uuid.UUID) (bool, error) {
	query := conn(ctx, r.db).Model(&models.DiscountModel{}).Where("code = ?", promotion.NormalizeCode(code))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	return exists(query)
}

// RecordUsage stores a redemption. One order redeems at most one code.
func (r *GormDiscountRepository) RecordUsage(ctx context.Context, usage *promotion.Usage) error {
	return translateError(conn(ctx, r.db).Create(&models.DiscountUsageModel{
		ID:         usage.ID,
		DiscountID: usage.DiscountID,
		UserID:     usage.UserID,
		OrderID:    usage.OrderID,
		UsedAt:     usage.UsedAt,
	}).Error)
}

// CountUsageByUser counts redemptions of a discount by a user
func (r *GormDiscountRepository) CountUsageByUser(ctx context.Context, discountID, userID uuid.UUID) (int, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.DiscountUsageModel{}).
		Where("discount_id = ? AND user_id = ?", discountID, userID).
		Count(&count).Error
	return int(count), err
}

var _ promotion.Repository = (*GormDiscountRepository)(nil)
