package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/catalog"
	"github.com/secureshop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ProductModel is the persistence model for catalog.Product
type ProductModel struct {
	AggregateModel
	SKU              string                                 `gorm:"type:varchar(100);not null;uniqueIndex"`
	Name             string                                 `gorm:"type:varchar(255);not null;index"`
	ShortDescription string                                 `gorm:"type:varchar(500)"`
	Description      string                                 `gorm:"type:text"`
	ListedPrice      decimal.Decimal                        `gorm:"type:decimal(15,2);not null"`
	Price            decimal.Decimal                        `gorm:"type:decimal(15,2);not null;index"`
	Active           bool                                   `gorm:"not null;index"`
	CategoryID       *uuid.UUID                             `gorm:"type:uuid;index"`
	BrandID          *uuid.UUID                             `gorm:"type:uuid;index"`
	ThumbnailURL     string                                 `gorm:"type:varchar(500)"`
	Media            datatypes.JSONSlice[catalog.MediaAsset] `gorm:"not null"`
	Features         datatypes.JSONSlice[string]            `gorm:"not null"`
	Specifications   datatypes.JSONType[map[string]string]  `gorm:"not null"`
	RatingAverage    decimal.Decimal                        `gorm:"type:decimal(3,2);not null;default:0"`
	ReviewCount      int                                    `gorm:"not null;default:0"`
	DeletedAt        *time.Time                             `gorm:"index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the model to a domain product
func (m *ProductModel) ToDomain() *catalog.Product {
	specs := m.Specifications.Data()
	if specs == nil {
		specs = map[string]string{}
	}
	return &catalog.Product{
		BaseAggregateRoot: m.ToAggregateRoot(),
		SKU:               m.SKU,
		Name:              m.Name,
		ShortDescription:  m.ShortDescription,
		Description:       m.Description,
		ListedPrice:       valueobject.VNDOf(m.ListedPrice),
		Price:             valueobject.VNDOf(m.Price),
		Active:            m.Active,
		CategoryID:        m.CategoryID,
		BrandID:           m.BrandID,
		ThumbnailURL:      m.ThumbnailURL,
		Media:             append([]catalog.MediaAsset{}, m.Media...),
		Features:          append([]string{}, m.Features...),
		Specifications:    specs,
		RatingAverage:     m.RatingAverage,
		ReviewCount:       m.ReviewCount,
		DeletedAt:         m.DeletedAt,
	}
}

// ProductModelFromDomain creates a model from a domain product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
		SKU:              p.SKU,
		Name:             p.Name,
		ShortDescription: p.ShortDescription,
		Description:      p.Description,
		ListedPrice:      p.ListedPrice.Amount(),
		Price:            p.Price.Amount(),
		Active:           p.Active,
		CategoryID:       p.CategoryID,
		BrandID:          p.BrandID,
		ThumbnailURL:     p.ThumbnailURL,
		Media:            datatypes.NewJSONSlice(nonNil(p.Media)),
		Features:         datatypes.NewJSONSlice(nonNil(p.Features)),
		Specifications:   datatypes.NewJSONType(p.Specifications),
		RatingAverage:    p.RatingAverage,
		ReviewCount:      p.ReviewCount,
		DeletedAt:        p.DeletedAt,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// CategoryModel is the persistence model for catalog.Category
type CategoryModel struct {
	AggregateModel
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
	ImageURL    string `gorm:"type:varchar(500)"`
	Active      bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the model to a domain category
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		ImageURL:          m.ImageURL,
		Active:            m.Active,
	}
}

// CategoryModelFromDomain creates a model from a domain category
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{Name: c.Name, Description: c.Description, ImageURL: c.ImageURL, Active: c.Active}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}

// BrandModel is the persistence model for catalog.Brand
type BrandModel struct {
	AggregateModel
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
	LogoURL     string `gorm:"type:varchar(500)"`
	Active      bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BrandModel) TableName() string {
	return "brands"
}

// ToDomain converts the model to a domain brand
func (m *BrandModel) ToDomain() *catalog.Brand {
	return &catalog.Brand{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		LogoURL:           m.LogoURL,
		Active:            m.Active,
	}
}

// BrandModelFromDomain creates a model from a domain brand
func BrandModelFromDomain(b *catalog.Brand) *BrandModel {
	m := &BrandModel{Name: b.Name, Description: b.Description, LogoURL: b.LogoURL, Active: b.Active}
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	return m
}

// ReviewModel is the persistence model for catalog.Review
type ReviewModel struct {
	AggregateModel
	ProductID   uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_product_user,priority:1"`
	UserID      uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_product_user,priority:2"`
	OrderItemID *uuid.UUID           `gorm:"type:uuid"`
	Rating      int                  `gorm:"not null"`
	Comment     string               `gorm:"type:text"`
	Status      catalog.ReviewStatus `gorm:"type:varchar(20);not null;default:PENDING;index"`
}

// TableName returns the table name for GORM
func (ReviewModel) TableName() string {
	return "reviews"
}

// ToDomain converts the model to a domain review
func (m *ReviewModel) ToDomain() *catalog.Review {
	return &catalog.Review{
		BaseAggregateRoot: m.ToAggregateRoot(),
		ProductID:         m.ProductID,
		UserID:            m.UserID,
		OrderItemID:       m.OrderItemID,
		Rating:            m.Rating,
		Comment:           m.Comment,
		Status:            m.Status,
	}
}

// ReviewModelFromDomain creates a model from a domain review
func ReviewModelFromDomain(r *catalog.Review) *ReviewModel {
	m := &ReviewModel{
		ProductID:   r.ProductID,
		UserID:      r.UserID,
		OrderItemID: r.OrderItemID,
		Rating:      r.Rating,
		Comment:     r.Comment,
		Status:      r.Status,
	}
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	return m
}
