package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/catalog"
	"github.com/secureshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCategoryRepository implements catalog.CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// Create inserts a category
func (r *GormCategoryRepository) Create(ctx context.Context, category *catalog.Category) error {
	return translateError(conn(ctx, r.db).Create(models.CategoryModelFromDomain(category)).Error)
}

// Update saves a category with optimistic locking
func (r *GormCategoryRepository) Update(ctx context.Context, category *catalog.Category) error {
	return updateVersioned(conn(ctx, r.db), models.CategoryModelFromDomain(category), category.ID, category.Version)
}

// Delete removes a category
func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(conn(ctx, r.db), &models.CategoryModel{}, id)
}

// FindByID finds a category by ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var model models.CategoryModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists categories by name
func (r *GormCategoryRepository) FindAll(ctx context.Context, activeOnly bool) ([]*catalog.Category, error) {
	query := conn(ctx, r.db).Order("name ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var rows []models.CategoryModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*catalog.Category, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// ExistsByName checks for a case-insensitive name clash
func (r *GormCategoryRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	query := conn(ctx, r.db).Model(&models.CategoryModel{}).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	return exists(query)
}

// HasProducts reports whether a live product references the category
func (r *GormCategoryRepository) HasProducts(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists(conn(ctx, r.db).Model(&models.ProductModel{}).
		Where("category_id = ? AND deleted_at IS NULL", id))
}

var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)

// GormBrandRepository implements catalog.BrandRepository using GORM
type GormBrandRepository struct {
	db *gorm.DB
}

// NewGormBrandRepository creates a new GormBrandRepository
func NewGormBrandRepository(db *gorm.DB) *GormBrandRepository {
	return &GormBrandRepository{db: db}
}

// Create inserts a brand
func (r *GormBrandRepository) Create(ctx context.Context, brand *catalog.Brand) error {
	return translateError(conn(ctx, r.db).Create(models.BrandModelFromDomain(brand)).Error)
}

// Update saves a brand with optimistic locking
func (r *GormBrandRepository) Update(ctx context.Context, brand *catalog.Brand) error {
	return updateVersioned(conn(ctx, r.db), models.BrandModelFromDomain(brand), brand.ID, brand.Version)
}

// Delete removes a brand
func (r *GormBrandRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(conn(ctx, r.db), &models.BrandModel{}, id)
}

// FindByID finds a brand by ID
func (r *GormBrandRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Brand, error) {
	var model models.BrandModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists brands by name
func (r *GormBrandRepository) FindAll(ctx context.Context, activeOnly bool) ([]*catalog.Brand, error) {
	query := conn(ctx, r.db).Order("name ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var rows []models.BrandModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*catalog.Brand, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// ExistsByName checks for a case-insensitive name clash
func (r *GormBrandRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	query := conn(ctx, r.db).Model(&models.BrandModel{}).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	return exists(query)
}

// HasProducts reports whether a live product references the brand
func (r *GormBrandRepository) HasProducts(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists(conn(ctx, r.db).Model(&models.ProductModel{}).
		Where("brand_id = ? AND deleted_at IS NULL", id))
}

var _ catalog.BrandRepository = (*GormBrandRepository)(nil)
