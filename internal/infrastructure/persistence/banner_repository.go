package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/content"
	"github.com/secureshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBannerRepository implements content.BannerRepository using GORM
type GormBannerRepository struct {
	db *gorm.DB
}

// NewGormBannerRepository creates a new GormBannerRepository
func NewGormBannerRepository(db *gorm.DB) *GormBannerRepository {
	return &GormBannerRepository{db: db}
}

func (r *GormBannerRepository) Create(ctx context.Context, b *content.Banner) error {
	return translateError(conn(ctx, r.db).Create(models.BannerModelFromDomain(b)).Error)
}

func (r *GormBannerRepository) Update(ctx context.Context, b *content.Banner) error {
	return updateVersioned(conn(ctx, r.db), models.BannerModelFromDomain(b), b.ID, b.Version)
}

func (r *GormBannerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(conn(ctx, r.db), &models.BannerModel{}, id)
}

func (r *GormBannerRepository) FindByID(ctx context.Context, id uuid.UUID) (*content.Banner, error) {
	var model models.BannerModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists banners of a position, or every banner when position is nil
func (r *GormBannerRepository) FindAll(ctx context.Context, position *content.Position) ([]*content.Banner, error) {
	return r.find(r.scoped(ctx, position))
}

// FindLive returns active banners whose schedule covers now
func (r *GormBannerRepository) FindLive(ctx context.Context, position *content.Position, now time.Time) ([]*content.Banner, error) {
	query := r.scoped(ctx, position).
		Where("active = ?", true).
		Where("starts_at IS NULL OR starts_at <= ?", now).
		Where("ends_at IS NULL OR ends_at > ?", now)
	return r.find(query)
}

func (r *GormBannerRepository) scoped(ctx context.Context, position *content.Position) *gorm.DB {
	query := conn(ctx, r.db).Model(&models.BannerModel{})
	if position != nil {
		query = query.Where("position = ?", *position)
	}
	return query
}

func (r *GormBannerRepository) find(query *gorm.DB) ([]*content.Banner, error) {
	var rows []models.BannerModel
	if err := query.Order("sort_order ASC, created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*content.Banner, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

var _ content.BannerRepository = (*GormBannerRepository)(nil)
