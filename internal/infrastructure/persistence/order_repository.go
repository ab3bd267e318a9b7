package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/order"
	"github.com/secureshop/backend/internal/domain/shared/valueobject"
	"github.com/secureshop/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts the order header and its items
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) error {
	return translateError(conn(ctx, r.db).Create(models.OrderModelFromDomain(o)).Error)
}

// Update saves header fields with optimistic locking. Items are immutable
// once placed and are not rewritten.
func (r *GormOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return updateVersioned(conn(ctx, r.db), models.OrderModelFromDomain(o), o.ID, o.Version)
}

// Delete removes an order and, through the foreign key, its items
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := conn(ctx, r.db)
	if err := db.Where("order_id = ?", id).Delete(&models.OrderItemModel{}).Error; err != nil {
		return err
	}
	return deleteByID(db, &models.OrderModel{}, id)
}

// FindByID finds an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return r.findByID(conn(ctx, r.db), id)
}

// FindByIDForUpdate locks the order row for the current transaction
func (r *GormOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return r.findByID(forUpdate(conn(ctx, r.db)), id)
}

func (r *GormOrderRepository) findByID(db *gorm.DB, id uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	if err := db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_items.name ASC")
	}).First(&model, "orders.id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists orders with their items, newest first
func (r *GormOrderRepository) FindAll(ctx context.Context, filter order.Filter) ([]*order.Order, int64, error) {
	query := conn(ctx, r.db).Model(&models.OrderModel{})
	if filter.UserID != nil {
		query = query.Where("orders.user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("orders.status = ?", *filter.Status)
	}
	if filter.PaymentStatus != nil {
		query = query.Where("orders.payment_status = ?", *filter.PaymentStatus)
	}
	if len(filter.PaymentStatuses) > 0 {
		query = query.Where("orders.payment_status IN ?", filter.PaymentStatuses)
	}
	if filter.PaymentMethod != nil {
		query = query.Where("orders.payment_method = ?", *filter.PaymentMethod)
	}
	if filter.From != nil {
		query = query.Where("orders.created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("orders.created_at < ?", *filter.To)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		query = query.Where(
			"(LOWER("+r.idText("orders.id")+") LIKE ? OR LOWER(orders.shipping_name) LIKE ? ESCAPE '!' OR orders.shipping_phone LIKE ? ESCAPE '!' OR LOWER(orders.shipping_email) LIKE ? ESCAPE '!')",
			strings.ToLower(strings.Trim(term, "%_!"))+"%", likePattern(term), likePattern(term), likePattern(term),
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	orderBy := "orders.created_at DESC"
	if filter.OldestFirst {
		orderBy = "orders.created_at ASC, orders.id ASC"
	}
	var rows []models.OrderModel
	if err := paginate(query.Preload("Items").Order(orderBy), filter.Page, filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*order.Order, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, total, nil
}

// idText renders a uuid column as text for prefix matching
func (r *GormOrderRepository) idText(col string) string {
	if r.db.Dialector.Name() == "postgres" {
		return "CAST(" + col + " AS TEXT)"
	}
	return col
}

// HasDeliveredItem finds the latest delivered order of the user that
// contains productID
func (r *GormOrderRepository) HasDeliveredItem(ctx context.Context, userID, productID uuid.UUID) (*uuid.UUID, error) {
	var ids []uuid.UUID
	if err := conn(ctx, r.db).Model(&models.OrderModel{}).
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Where("orders.user_id = ? AND orders.status = ? AND order_items.product_id = ?",
			userID, order.StatusDelivered, productID).
		Order("orders.delivered_at DESC").
		Limit(1).
		Pluck("orders.id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return &ids[0], nil
}

// Stats aggregates orders created in [from, to)
func (r *GormOrderRepository) Stats(ctx context.Context, from, to time.Time) (order.Stats, error) {
	var row struct {
		TotalOrders     int64
		PendingOrders   int64
		CompletedOrders int64
		CancelledOrders int64
		PaidOrders      int64
		Revenue         decimal.Decimal
	}
	err := conn(ctx, r.db).Model(&models.OrderModel{}).
		Select(`COUNT(*) AS total_orders,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pending_orders,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed_orders,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS cancelled_orders,
			COALESCE(SUM(CASE WHEN payment_status = ? THEN 1 ELSE 0 END), 0) AS paid_orders,
			COALESCE(SUM(CASE WHEN payment_status = ? AND status <> ? THEN grand_total ELSE 0 END), 0) AS revenue`,
			order.StatusPending, order.StatusDelivered, order.StatusCancelled,
			order.PaymentPaid, order.PaymentPaid, order.StatusCancelled).
		Where("created_at >= ? AND created_at < ?", from, to).
		Scan(&row).Error
	if err != nil {
		return order.Stats{}, err
	}
	return order.Stats{
		TotalOrders:     row.TotalOrders,
		PendingOrders:   row.PendingOrders,
		CompletedOrders: row.CompletedOrders,
		CancelledOrders: row.CancelledOrders,
		PaidOrders:      row.PaidOrders,
		Revenue:         valueobject.VNDOf(row.Revenue),
	}, nil
}

// CountDistinctCustomers counts users who ordered in [from, to)
func (r *GormOrderRepository) CountDistinctCustomers(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.OrderModel{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Distinct("user_id").
		Count(&count).Error
	return count, err
}

var _ order.Repository = (*GormOrderRepository)(nil)
