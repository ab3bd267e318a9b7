package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/catalog"
	"github.com/secureshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM.
// Soft-deleted products (deleted_at set) are invisible to every read.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) live(ctx context.Context) *gorm.DB {
	return conn(ctx, r.db).Model(&models.ProductModel{}).Where("products.deleted_at IS NULL")
}

// Create inserts a new product
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	return translateError(conn(ctx, r.db).Create(models.ProductModelFromDomain(product)).Error)
}

// Update saves the product with optimistic locking. Soft deletion is an
// update that sets DeletedAt.
func (r *GormProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	return updateVersioned(conn(ctx, r.db), models.ProductModelFromDomain(product), product.ID, product.Version)
}

// FindByID finds a live product by ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.live(ctx).Where("products.id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs loads the live products among ids, in no particular order
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Product, error) {
	if len(ids) == 0 {
		return []*catalog.Product{}, nil
	}
	var rows []models.ProductModel
	if err := r.live(ctx).Where("products.id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return productsToDomain(rows), nil
}

// ExistsBySKU checks if a live product uses sku, ignoring excludeID
func (r *GormProductRepository) ExistsBySKU(ctx context.Context, sku string, excludeID *uuid.UUID) (bool, error) {
	query := r.live(ctx).Where("products.sku = ?", sku)
	if excludeID != nil {
		query = query.Where("products.id <> ?", *excludeID)
	}
	return exists(query)
}

// FindAll lists products matching the filter with the total count
func (r *GormProductRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]*catalog.Product, int64, error) {
	query := r.applyFilter(r.live(ctx), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ProductModel
	order := orderBy(filter.SortBy, filter.SortOrder, ProductSortFields, "products.created_at")
	if err := paginate(query.Select("products.*").Order(order), filter.Page, filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return productsToDomain(rows), total, nil
}

// Count returns the number of live products
func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.live(ctx).Count(&count).Error
	return count, err
}

func (r *GormProductRepository) applyFilter(query *gorm.DB, filter catalog.ProductFilter) *gorm.DB {
	query = search(query, filter.Search, "products.name", "products.sku", "products.short_description")
	if filter.ActiveOnly {
		query = query.Where("products.active = ?", true)
	}
	if filter.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filter.CategoryID)
	}
	if filter.BrandID != nil {
		query = query.Where("products.brand_id = ?", *filter.BrandID)
	}
	if filter.MinPrice != nil {
		query = query.Where("products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filter.MaxPrice)
	}
	if filter.InStock != nil {
		query = query.Joins("LEFT JOIN inventories ON inventories.product_id = products.id")
		if *filter.InStock {
			query = query.Where("inventories.on_hand - inventories.reserved > 0")
		} else {
			query = query.Where("inventories.id IS NULL OR inventories.on_hand - inventories.reserved <= 0")
		}
	}
	return query
}

func productsToDomain(rows []models.ProductModel) []*catalog.Product {
	out := make([]*catalog.Product, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
