package content

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/shared"
)

// Article is a blog or news post shown on the storefront
type Article struct {
	shared.BaseAggregateRoot
	Title       string
	Slug        string
	Summary     string
	Content     string
	ImageURL    string
	PublishedAt *time.Time
	Active      bool
	AuthorID    *uuid.UUID
}

// ArticleInput carries every editable field. An empty Slug is derived from the title.
type ArticleInput struct {
	Title       string
	Slug        string
	Summary     string
	Content     string
	ImageURL    string
	PublishedAt *time.Time
	Active      bool
}

// NewArticle validates input and creates an article
func NewArticle(in ArticleInput, authorID *uuid.UUID) (*Article, error) {
	a := &Article{BaseAggregateRoot: shared.NewBaseAggregateRoot(), AuthorID: authorID}
	if err := a.apply(in); err != nil {
		return nil, err
	}
	return a, nil
}

// Update replaces the editable fields
func (a *Article) Update(in ArticleInput) error {
	if err := a.apply(in); err != nil {
		return err
	}
	a.MarkModified()
	return nil
}

func (a *Article) apply(in ArticleInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || len([]rune(in.Title)) > 255 {
		return shared.NewDomainError("INVALID_TITLE", "Title must be 1-255 characters")
	}
	in.Slug = strings.TrimSpace(in.Slug)
	if in.Slug == "" {
		in.Slug = Slugify(in.Title)
	}
	if !IsValidSlug(in.Slug) {
		return shared.NewDomainError("INVALID_SLUG", "Slug must be lower-case letters and digits separated by single hyphens")
	}
	if strings.TrimSpace(in.Content) == "" {
		return shared.NewDomainError("INVALID_CONTENT", "Content cannot be empty")
	}
	if len([]rune(in.Summary)) > 500 {
		return shared.NewDomainError("INVALID_SUMMARY", "Summary cannot exceed 500 characters")
	}
	if in.Active && in.PublishedAt == nil {
		now := time.Now()
		in.PublishedAt = &now
	}

	a.Title = in.Title
	a.Slug = in.Slug
	a.Summary = in.Summary
	a.Content = in.Content
	a.ImageURL = in.ImageURL
	a.PublishedAt = in.PublishedAt
	a.Active = in.Active
	return nil
}

// IsPublished is true for active articles whose publish time has passed
func (a *Article) IsPublished(now time.Time) bool {
	return a.Active && a.PublishedAt != nil && !a.PublishedAt.After(now)
}
