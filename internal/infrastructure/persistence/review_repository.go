package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/catalog"
	"github.com/secureshop/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReviewRepository implements catalog.ReviewRepository using GORM
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// Create inserts a review. A second review of the same product by the same
// user violates the unique index and yields shared.ErrAlreadyExists.
func (r *GormReviewRepository) Create(ctx context.Context, review *catalog.Review) error {
	return translateError(conn(ctx, r.db).Create(models.ReviewModelFromDomain(review)).Error)
}

// Update saves a review with optimistic locking
func (r *GormReviewRepository) Update(ctx context.Context, review *catalog.Review) error {
	return updateVersioned(conn(ctx, r.db), models.ReviewModelFromDomain(review), review.ID, review.Version)
}

// Delete removes a review
func (r *GormReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(conn(ctx, r.db), &models.ReviewModel{}, id)
}

// FindByID finds a review by ID
func (r *GormReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Review, error) {
	var model models.ReviewModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists reviews, newest first
func (r *GormReviewRepository) FindAll(ctx context.Context, filter catalog.ReviewFilter) ([]*catalog.Review, int64, error) {
	query := conn(ctx, r.db).Model(&models.ReviewModel{})
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Rating != nil {
		query = query.Where("rating = ?", *filter.Rating)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.ReviewModel
	if err := paginate(query.Order("created_at DESC"), filter.Page, filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*catalog.Review, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, total, nil
}

// ExistsForUser reports whether the user already reviewed the product
func (r *GormReviewRepository) ExistsForUser(ctx context.Context, productID, userID uuid.UUID) (bool, error) {
	return exists(conn(ctx, r.db).Model(&models.ReviewModel{}).
		Where("product_id = ? AND user_id = ?", productID, userID))
}

// Summarize averages approved ratings of a product, rounded to 1 place
func (r *GormReviewRepository) Summarize(ctx context.Context, productID uuid.UUID) (catalog.RatingSummary, error) {
	var row struct {
		Total int64
		Count int64
	}
	if err := conn(ctx, r.db).Model(&models.ReviewModel{}).
		Select("COALESCE(SUM(rating), 0) AS total, COUNT(*) AS count").
		Where("product_id = ? AND status = ?", productID, catalog.ReviewStatusApproved).
		Scan(&row).Error; err != nil {
		return catalog.RatingSummary{}, err
	}
	if row.Count == 0 {
		return catalog.RatingSummary{Average: decimal.Zero}, nil
	}
	avg := decimal.NewFromInt(row.Total).Div(decimal.NewFromInt(row.Count)).Round(1)
	return catalog.RatingSummary{Average: avg, Count: int(row.Count)}, nil
}

var _ catalog.ReviewRepository = (*GormReviewRepository)(nil)
