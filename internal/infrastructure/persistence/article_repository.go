package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/content"
	"github.com/secureshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormArticleRepository implements content.ArticleRepository using GORM
type GormArticleRepository struct {
	db *gorm.DB
}

// NewGormArticleRepository creates a new GormArticleRepository
func NewGormArticleRepository(db *gorm.DB) *GormArticleRepository {
	return &GormArticleRepository{db: db}
}

func (r *GormArticleRepository) Create(ctx context.Context, a *content.Article) error {
	return translateError(conn(ctx, r.db).Create(models.ArticleModelFromDomain(a)).Error)
}

func (r *GormArticleRepository) Update(ctx context.Context, a *content.Article) error {
	return updateVersioned(conn(ctx, r.db), models.ArticleModelFromDomain(a), a.ID, a.Version)
}

func (r *GormArticleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(conn(ctx, r.db), &models.ArticleModel{}, id)
}

func (r *GormArticleRepository) FindByID(ctx context.Context, id uuid.UUID) (*content.Article, error) {
	var model models.ArticleModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

func (r *GormArticleRepository) FindBySlug(ctx context.Context, slug string) (*content.Article, error) {
	var model models.ArticleModel
	if err := conn(ctx, r.db).Where("slug = ?", slug).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

func (r *GormArticleRepository) ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	query := conn(ctx, r.db).Model(&models.ArticleModel{}).Where("slug = ?", slug)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	return exists(query)
}

// FindAll lists articles, most recently published first
func (r *GormArticleRepository) FindAll(ctx context.Context, filter content.ArticleFilter) ([]*content.Article, int64, error) {
	query := search(conn(ctx, r.db).Model(&models.ArticleModel{}), filter.Search, "title", "summary")
	if filter.PublishedOnly {
		query = query.Where("active = ? AND published_at IS NOT NULL AND published_at <= ?", true, time.Now().UTC())
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.ArticleModel
	if err := paginate(query.Order("published_at DESC, created_at DESC"), filter.Page, filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*content.Article, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, total, nil
}

var _ content.ArticleRepository = (*GormArticleRepository)(nil)
