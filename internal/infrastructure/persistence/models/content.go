package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/content"
)

// ArticleModel is the persistence model for content.Article
type ArticleModel struct {
	AggregateModel
	Title       string     `gorm:"type:varchar(255);not null"`
	Slug        string     `gorm:"type:varchar(200);not null;uniqueIndex"`
	Summary     string     `gorm:"type:varchar(500)"`
	Content     string     `gorm:"type:text"`
	ImageURL    string     `gorm:"type:varchar(500)"`
	PublishedAt *time.Time `gorm:"index"`
	Active      bool       `gorm:"not null"`
	AuthorID    *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (ArticleModel) TableName() string {
	return "articles"
}

// ToDomain converts the model to a domain article
func (m *ArticleModel) ToDomain() *content.Article {
	return &content.Article{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Title:             m.Title,
		Slug:              m.Slug,
		Summary:           m.Summary,
		Content:           m.Content,
		ImageURL:          m.ImageURL,
		PublishedAt:       m.PublishedAt,
		Active:            m.Active,
		AuthorID:          m.AuthorID,
	}
}

// ArticleModelFromDomain creates a model from a domain article
func ArticleModelFromDomain(a *content.Article) *ArticleModel {
	m := &ArticleModel{
		Title:       a.Title,
		Slug:        a.Slug,
		Summary:     a.Summary,
		Content:     a.Content,
		ImageURL:    a.ImageURL,
		PublishedAt: a.PublishedAt,
		Active:      a.Active,
		AuthorID:    a.AuthorID,
	}
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	return m
}

// BannerModel is the persistence model for content.Banner
type BannerModel struct {
	AggregateModel
	Title     string           `gorm:"type:varchar(255);not null"`
	ImageURL  string           `gorm:"type:varchar(500);not null"`
	LinkURL   string           `gorm:"type:varchar(500)"`
	Position  content.Position `gorm:"type:varchar(30);not null;index"`
	SortOrder int              `gorm:"not null;default:0"`
	Active    bool             `gorm:"not null"`
	StartsAt  *time.Time
	EndsAt    *time.Time
}

// TableName returns the table name for GORM
func (BannerModel) TableName() string {
	return "banners"
}

// ToDomain converts the model to a domain banner
func (m *BannerModel) ToDomain() *content.Banner {
	return &content.Banner{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Title:             m.Title,
		ImageURL:          m.ImageURL,
		LinkURL:           m.LinkURL,
		Position:          m.Position,
		SortOrder:         m.SortOrder,
		Active:            m.Active,
		StartsAt:          m.StartsAt,
		EndsAt:            m.EndsAt,
	}
}

// BannerModelFromDomain creates a model from a domain banner
func BannerModelFromDomain(b *content.Banner) *BannerModel {
	m := &BannerModel{
		Title:     b.Title,
		ImageURL:  b.ImageURL,
		LinkURL:   b.LinkURL,
		Position:  b.Position,
		SortOrder: b.SortOrder,
		Active:    b.Active,
		StartsAt:  b.StartsAt,
		EndsAt:    b.EndsAt,
	}
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	return m
}
