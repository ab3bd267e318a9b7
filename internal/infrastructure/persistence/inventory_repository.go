package persistence

import (
	"bytes"
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/inventory"
	"github.com/secureshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormInventoryRepository implements inventory.Repository using GORM
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GormInventoryRepository
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// Create inserts the stock row of a product
func (r *GormInventoryRepository) Create(ctx context.Context, inv *inventory.Inventory) error {
	return translateError(conn(ctx, r.db).Create(models.InventoryModelFromDomain(inv)).Error)
}

// Save writes the row with optimistic locking
func (r *GormInventoryRepository) Save(ctx context.Context, inv *inventory.Inventory) error {
	return updateVersioned(conn(ctx, r.db), models.InventoryModelFromDomain(inv), inv.ID, inv.Version)
}

// FindByProduct finds the stock row of a product
func (r *GormInventoryRepository) FindByProduct(ctx context.Context, productID uuid.UUID) (*inventory.Inventory, error) {
	var model models.InventoryModel
	if err := conn(ctx, r.db).Where("product_id = ?", productID).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByProducts loads the stock rows of productIDs keyed by product.
// Products without a row are absent from the map.
func (r *GormInventoryRepository) FindByProducts(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]*inventory.Inventory, error) {
	return r.findByProducts(conn(ctx, r.db), productIDs)
}

// LockByProducts is FindByProducts with row locks taken in ascending
// product id order, so two checkouts sharing products cannot deadlock.
func (r *GormInventoryRepository) LockByProducts(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]*inventory.Inventory, error) {
	return r.findByProducts(forUpdate(conn(ctx, r.db)), productIDs)
}

func (r *GormInventoryRepository) findByProducts(db *gorm.DB, productIDs []uuid.UUID) (map[uuid.UUID]*inventory.Inventory, error) {
	out := make(map[uuid.UUID]*inventory.Inventory, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	ids := slices.Clone(productIDs)
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	ids = slices.Compact(ids)

	var rows []models.InventoryModel
	if err := db.Where("product_id IN ?", ids).Order("product_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].ProductID] = rows[i].ToDomain()
	}
	return out, nil
}

// FindAll lists stock rows of live products, lowest availability first
func (r *GormInventoryRepository) FindAll(ctx context.Context, filter inventory.Filter) ([]*inventory.Inventory, int64, error) {
	query := conn(ctx, r.db).Model(&models.InventoryModel{}).
		Joins("JOIN products ON products.id = inventories.product_id AND products.deleted_at IS NULL")
	query = search(query, filter.Search, "products.name", "products.sku")
	if filter.LowStock {
		query = query.Where("inventories.on_hand - inventories.reserved <= inventories.low_stock_threshold")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.InventoryModel
	if err := paginate(query.Select("inventories.*").
		Order("inventories.on_hand - inventories.reserved ASC, products.name ASC"), filter.Page, filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*inventory.Inventory, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, total, nil
}

// CountInStock counts live products with and without available stock
func (r *GormInventoryRepository) CountInStock(ctx context.Context) (int64, int64, error) {
	var row struct {
		InStock    int64
		OutOfStock int64
	}
	err := conn(ctx, r.db).Model(&models.InventoryModel{}).
		Joins("JOIN products ON products.id = inventories.product_id AND products.deleted_at IS NULL").
		Select(`COALESCE(SUM(CASE WHEN inventories.on_hand - inventories.reserved > 0 THEN 1 ELSE 0 END), 0) AS in_stock,
			COALESCE(SUM(CASE WHEN inventories.on_hand - inventories.reserved <= 0 THEN 1 ELSE 0 END), 0) AS out_of_stock`).
		Scan(&row).Error
	return row.InStock, row.OutOfStock, err
}

var _ inventory.Repository = (*GormInventoryRepository)(nil)

// GormMovementRepository implements inventory.MovementRepository using GORM
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Append writes movements to the log
func (r *GormMovementRepository) Append(ctx context.Context, movements ...*inventory.Movement) error {
	if len(movements) == 0 {
		return nil
	}
	rows := make([]*models.StockMovementModel, len(movements))
	for i, mv := range movements {
		rows[i] = models.StockMovementModelFromDomain(mv)
	}
	return translateError(conn(ctx, r.db).Create(rows).Error)
}

// FindByProduct pages through the movements of a product, newest first
func (r *GormMovementRepository) FindByProduct(ctx context.Context, productID uuid.UUID, page, pageSize int) ([]*inventory.Movement, int64, error) {
	query := conn(ctx, r.db).Model(&models.StockMovementModel{}).Where("product_id = ?", productID)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.StockMovementModel
	if err := paginate(query.Order("created_at DESC"), page, pageSize).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*inventory.Movement, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, total, nil
}

var _ inventory.MovementRepository = (*GormMovementRepository)(nil)
