package content

import (
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/content"
)

// ArticleRequest creates or replaces an article
type ArticleRequest struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Slug        string     `json:"slug" binding:"max=255"`
	Summary     string     `json:"summary" binding:"max=500"`
	Content     string     `json:"content" binding:"required"`
	ImageURL    string     `json:"imageUrl" binding:"omitempty,url,max=500"`
	PublishedAt *time.Time `json:"publishedAt"`
	Active      bool       `json:"active"`
}

func (r ArticleRequest) toInput() content.ArticleInput {
	return content.ArticleInput{
		Title:       r.Title,
		Slug:        r.Slug,
		Summary:     r.Summary,
		Content:     r.Content,
		ImageURL:    r.ImageURL,
		PublishedAt: r.PublishedAt,
		Active:      r.Active,
	}
}

// ArticleListFilter pages through articles
type ArticleListFilter struct {
	Search   string `form:"search" binding:"max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ArticleResponse represents an article in API responses
type ArticleResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Summary     string     `json:"summary"`
	Content     string     `json:"content,omitempty"`
	ImageURL    string     `json:"imageUrl"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	Active      bool       `json:"active"`
	AuthorID    *uuid.UUID `json:"authorId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ToArticleResponse converts a domain article. Listings omit the body.
func ToArticleResponse(a *content.Article, withBody bool) ArticleResponse {
	resp := ArticleResponse{
		ID:          a.ID,
		Title:       a.Title,
		Slug:        a.Slug,
		Summary:     a.Summary,
		ImageURL:    a.ImageURL,
		PublishedAt: a.PublishedAt,
		Active:      a.Active,
		AuthorID:    a.AuthorID,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if withBody {
		resp.Content = a.Content
	}
	return resp
}

// BannerRequest creates or replaces a banner
type BannerRequest struct {
	Title     string     `json:"title" binding:"required,max=255"`
	ImageURL  string     `json:"imageUrl" binding:"required,max=500"`
	LinkURL   string     `json:"linkUrl" binding:"max=500"`
	Position  string     `json:"position" binding:"required,oneof=home_hero home_middle sidebar"`
	SortOrder int        `json:"sortOrder" binding:"min=0"`
	Active    bool       `json:"active"`
	StartsAt  *time.Time `json:"startsAt"`
	EndsAt    *time.Time `json:"endsAt"`
}

func (r BannerRequest) toInput() content.BannerInput {
	return content.BannerInput{
		Title:     r.Title,
		ImageURL:  r.ImageURL,
		LinkURL:   r.LinkURL,
		Position:  content.Position(r.Position),
		SortOrder: r.SortOrder,
		Active:    r.Active,
		StartsAt:  r.StartsAt,
		EndsAt:    r.EndsAt,
	}
}

// BannerResponse represents a banner in API responses
type BannerResponse struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	ImageURL  string     `json:"imageUrl"`
	LinkURL   string     `json:"linkUrl"`
	Position  string     `json:"position"`
	SortOrder int        `json:"sortOrder"`
	Active    bool       `json:"active"`
	StartsAt  *time.Time `json:"startsAt,omitempty"`
	EndsAt    *time.Time `json:"endsAt,omitempty"`
}

// ToBannerResponse converts a domain banner
func ToBannerResponse(b *content.Banner) BannerResponse {
	return BannerResponse{
		ID:        b.ID,
		Title:     b.Title,
		ImageURL:  b.ImageURL,
		LinkURL:   b.LinkURL,
		Position:  string(b.Position),
		SortOrder: b.SortOrder,
		Active:    b.Active,
		StartsAt:  b.StartsAt,
		EndsAt:    b.EndsAt,
	}
}

func toBannerResponses(banners []*content.Banner) []BannerResponse {
	out := make([]BannerResponse, len(banners))
	for i, b := range banners {
		out[i] = ToBannerResponse(b)
	}
	return out
}
