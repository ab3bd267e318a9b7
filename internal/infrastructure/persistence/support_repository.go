package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/support"
	"github.com/secureshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTicketRepository implements support.TicketRepository using GORM
type GormTicketRepository struct {
	db *gorm.DB
}

// NewGormTicketRepository creates a new GormTicketRepository
func NewGormTicketRepository(db *gorm.DB) *GormTicketRepository {
	return &GormTicketRepository{db: db}
}

// Create inserts a ticket
func (r *GormTicketRepository) Create(ctx context.Context, t *support.Ticket) error {
	return translateError(conn(ctx, r.db).Create(models.TicketModelFromDomain(t)).Error)
}

// Update saves a ticket with optimistic locking
func (r *GormTicketRepository) Update(ctx context.Context, t *support.Ticket) error {
	return updateVersioned(conn(ctx, r.db), models.TicketModelFromDomain(t), t.ID, t.Version)
}

// FindByID finds a ticket by ID
func (r *GormTicketRepository) FindByID(ctx context.Context, id uuid.UUID) (*support.Ticket, error) {
	var model models.TicketModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists tickets, newest first
func (r *GormTicketRepository) FindAll(ctx context.Context, filter support.TicketFilter) ([]*support.Ticket, int64, error) {
	query := search(conn(ctx, r.db).Model(&models.TicketModel{}), filter.Search, "title", "subject")
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.TicketModel
	if err := paginate(query.Order("created_at DESC"), filter.Page, filter.PageSize).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*support.Ticket, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, total, nil
}

var _ support.TicketRepository = (*GormTicketRepository)(nil)

// GormWarrantyRepository implements support.WarrantyRepository using GORM
type GormWarrantyRepository struct {
	db *gorm.DB
}

// NewGormWarrantyRepository creates a new GormWarrantyRepository
func NewGormWarrantyRepository(db *gorm.DB) *GormWarrantyRepository {
	return &GormWarrantyRepository{db: db}
}

// Create inserts a warranty request
func (r *GormWarrantyRepository) Create(ctx context.Context, w *support.WarrantyRequest) error {
	return translateError(conn(ctx, r.db).Create(models.WarrantyRequestModelFromDomain(w)).Error)
}

// Update saves a warranty request with optimistic locking
func (r *GormWarrantyRepository) Update(ctx context.Context, w *support.WarrantyRequest) error {
	return updateVersioned(conn(ctx, r.db), models.WarrantyRequestModelFromDomain(w), w.ID, w.Version)
}

// FindByID finds a warranty request by ID
func (r *GormWarrantyRepository) FindByID(ctx context.Context, id uuid.UUID) (*support.WarrantyRequest, error) {
	var model models.WarrantyRequestModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists warranty requests, newest first
func (r *GormWarrantyRepository) FindAll(ctx context.Context, filter support.WarrantyFilter) ([]*support.WarrantyRequest, int64, error) {
	query := conn(ctx, r.db).Model(&models.WarrantyRequestModel{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.WarrantyRequestModel
	if err := paginate(query.Order("requested_at DESC"), filter.Page, filter.PageSize).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*support.WarrantyRequest, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, total, nil
}

// ExistsOpen reports a submitted or approved request for the same item
func (r *GormWarrantyRepository) ExistsOpen(ctx context.Context, orderID, productID uuid.UUID) (bool, error) {
	return exists(conn(ctx, r.db).Model(&models.WarrantyRequestModel{}).
		Where("order_id = ? AND product_id = ? AND status IN ?", orderID, productID,
			[]support.WarrantyStatus{support.WarrantySubmitted, support.WarrantyApproved}))
}

var _ support.WarrantyRepository = (*GormWarrantyRepository)(nil)
