package content

import (
	"context"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/content"
	"github.com/secureshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ArticleService manages storefront articles
type ArticleService struct {
	articles content.ArticleRepository
	logger   *zap.Logger
}

// NewArticleService creates a new ArticleService
func NewArticleService(articles content.ArticleRepository, logger *zap.Logger) *ArticleService {
	return &ArticleService{articles: articles, logger: logger.Named("articles")}
}

// ListPublished pages through published articles for the storefront
func (s *ArticleService) ListPublished(ctx context.Context, filter ArticleListFilter) (shared.Paginated[ArticleResponse], error) {
	return s.list(ctx, filter, true)
}

// List pages through every article for the back office
func (s *ArticleService) List(ctx context.Context, filter ArticleListFilter) (shared.Paginated[ArticleResponse], error) {
	return s.list(ctx, filter, false)
}

func (s *ArticleService) list(ctx context.Context, filter ArticleListFilter, published bool) (shared.Paginated[ArticleResponse], error) {
	f := content.ArticleFilter{Search: filter.Search, PublishedOnly: published, Page: filter.Page, PageSize: filter.PageSize}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 10
	}
	articles, total, err := s.articles.FindAll(ctx, f)
	if err != nil {
		return shared.Paginated[ArticleResponse]{}, err
	}
	items := make([]ArticleResponse, len(articles))
	for i, a := range articles {
		items[i] = ToArticleResponse(a, false)
	}
	return shared.NewPaginated(items, total, f.Page, f.PageSize), nil
}

// GetBySlug returns a published article
func (s *ArticleService) GetBySlug(ctx context.Context, slug string) (*ArticleResponse, error) {
	a, err := s.articles.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !a.Active {
		return nil, shared.ErrNotFound.WithMessage("Article not found")
	}
	resp := ToArticleResponse(a, true)
	return &resp, nil
}

// GetByID returns any article for editing
func (s *ArticleService) GetByID(ctx context.Context, id uuid.UUID) (*ArticleResponse, error) {
	a, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToArticleResponse(a, true)
	return &resp, nil
}

// Create adds an article written by authorID
func (s *ArticleService) Create(ctx context.Context, authorID uuid.UUID, req ArticleRequest) (*ArticleResponse, error) {
	a, err := content.NewArticle(req.toInput(), &authorID)
	if err != nil {
		return nil, err
	}
	if err := s.checkSlug(ctx, a.Slug, nil); err != nil {
		return nil, err
	}
	if err := s.articles.Create(ctx, a); err != nil {
		return nil, err
	}
	s.logger.Info("Article created", zap.String("article_id", a.ID.String()), zap.String("slug", a.Slug))
	resp := ToArticleResponse(a, true)
	return &resp, nil
}

// Update replaces an article
func (s *ArticleService) Update(ctx context.Context, id uuid.UUID, req ArticleRequest) (*ArticleResponse, error) {
	a, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := a.Update(req.toInput()); err != nil {
		return nil, err
	}
	if err := s.checkSlug(ctx, a.Slug, &id); err != nil {
		return nil, err
	}
	if err := s.articles.Update(ctx, a); err != nil {
		return nil, err
	}
	resp := ToArticleResponse(a, true)
	return &resp, nil
}

// Delete removes an article
func (s *ArticleService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.articles.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.articles.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Article deleted", zap.String("article_id", id.String()))
	return nil
}

func (s *ArticleService) checkSlug(ctx context.Context, slug string, excludeID *uuid.UUID) error {
	taken, err := s.articles.ExistsBySlug(ctx, slug, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return shared.ErrAlreadyExists.WithMessage("Slug is already used by another article")
	}
	return nil
}
