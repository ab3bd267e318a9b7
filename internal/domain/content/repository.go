package content

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ArticleFilter narrows article listings
type ArticleFilter struct {
	Search string
	// PublishedOnly keeps active articles published before now
	PublishedOnly bool
	Page          int
	PageSize      int
}

// ArticleRepository persists articles
type ArticleRepository interface {
	Create(ctx context.Context, a *Article) error
	Update(ctx context.Context, a *Article) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Article, error)
	FindBySlug(ctx context.Context, slug string) (*Article, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
	FindAll(ctx context.Context, filter ArticleFilter) ([]*Article, int64, error)
}

// BannerRepository persists banners
type BannerRepository interface {
	Create(ctx context.Context, b *Banner) error
	Update(ctx context.Context, b *Banner) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Banner, error)
	FindAll(ctx context.Context, position *Position) ([]*Banner, error)
	// FindLive returns banners active at now, ordered by sort order
	FindLive(ctx context.Context, position *Position, now time.Time) ([]*Banner, error)
}
