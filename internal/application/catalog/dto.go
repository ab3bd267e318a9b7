package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/catalog"
	"github.com/secureshop/backend/internal/domain/inventory"
	"github.com/secureshop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// MediaAssetRequest is one product image
type MediaAssetRequest struct {
	URL     string `json:"url" binding:"required,url,max=500"`
	AltText string `json:"altText" binding:"max=255"`
}

// ProductRequest creates or replaces a product
type ProductRequest struct {
	SKU              string              `json:"sku" binding:"required,min=1,max=100"`
	Name             string              `json:"name" binding:"required,min=1,max=255"`
	ShortDescription string              `json:"shortDescription" binding:"max=500"`
	Description      string              `json:"description" binding:"max=5000"`
	ListedPrice      decimal.Decimal     `json:"listedPrice" binding:"required"`
	Price            decimal.Decimal     `json:"price" binding:"required"`
	Active           *bool               `json:"active"`
	CategoryID       *uuid.UUID          `json:"categoryId"`
	BrandID          *uuid.UUID          `json:"brandId"`
	ThumbnailURL     string              `json:"thumbnailUrl" binding:"omitempty,max=500"`
	Media            []MediaAssetRequest `json:"media" binding:"omitempty,max=20,dive"`
	Features         []string            `json:"features" binding:"omitempty,max=50,dive,max=255"`
	Specifications   map[string]string   `json:"specifications"`
	// InitialStock seeds the inventory row on create and is ignored on update
	InitialStock int `json:"initialStock" binding:"min=0"`
}

func (r ProductRequest) toInput() catalog.ProductInput {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	media := make([]catalog.MediaAsset, len(r.Media))
	for i, m := range r.Media {
		media[i] = catalog.MediaAsset{URL: m.URL, AltText: m.AltText}
	}
	return catalog.ProductInput{
		SKU:              r.SKU,
		Name:             r.Name,
		ShortDescription: r.ShortDescription,
		Description:      r.Description,
		ListedPrice:      r.ListedPrice,
		Price:            r.Price,
		Active:           active,
		CategoryID:       r.CategoryID,
		BrandID:          r.BrandID,
		ThumbnailURL:     r.ThumbnailURL,
		Media:            media,
		Features:         r.Features,
		Specifications:   r.Specifications,
	}
}

// ProductListFilter is the storefront and admin product search
type ProductListFilter struct {
	Search     string           `form:"search" binding:"max=100"`
	CategoryID *uuid.UUID       `form:"categoryId"`
	BrandID    *uuid.UUID       `form:"brandId"`
	MinPrice   *decimal.Decimal `form:"minPrice"`
	MaxPrice   *decimal.Decimal `form:"maxPrice"`
	InStock    *bool            `form:"inStock"`
	SortBy     string           `form:"sortBy" binding:"omitempty,oneof=created_at price name rating"`
	SortOrder  string           `form:"sortOrder" binding:"omitempty,oneof=asc desc"`
	Page       int              `form:"page" binding:"omitempty,min=1"`
	PageSize   int              `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (f ProductListFilter) toDomain(activeOnly bool) catalog.ProductFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 20
	}
	return catalog.ProductFilter{
		Search:     f.Search,
		CategoryID: f.CategoryID,
		BrandID:    f.BrandID,
		MinPrice:   f.MinPrice,
		MaxPrice:   f.MaxPrice,
		InStock:    f.InStock,
		ActiveOnly: activeOnly,
		SortBy:     f.SortBy,
		SortOrder:  f.SortOrder,
		Page:       f.Page,
		PageSize:   f.PageSize,
	}
}

// NamedRef is an id and display name of a related record
type NamedRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ProductSummary is the listing projection of a product
type ProductSummary struct {
	ID              uuid.UUID         `json:"id"`
	SKU             string            `json:"sku"`
	Name            string            `json:"name"`
	ListedPrice     valueobject.Money `json:"listedPrice"`
	Price           valueobject.Money `json:"price"`
	DiscountPercent int               `json:"discountPercent"`
	ThumbnailURL    string            `json:"thumbnailUrl"`
	Active          bool              `json:"active"`
	InStock         bool              `json:"inStock"`
	AvailableStock  int               `json:"availableStock"`
	Category        *NamedRef         `json:"category,omitempty"`
	Brand           *NamedRef         `json:"brand,omitempty"`
	Rating          decimal.Decimal   `json:"rating"`
	ReviewCount     int               `json:"reviewCount"`
}

// ProductDetail is the full product page
type ProductDetail struct {
	ProductSummary
	ShortDescription string               `json:"shortDescription"`
	Description      string               `json:"description"`
	Media            []catalog.MediaAsset `json:"media"`
	Features         []string             `json:"features"`
	Specifications   map[string]string    `json:"specifications"`
	Reviews          []ReviewResponse     `json:"reviews"`
	CreatedAt        time.Time            `json:"createdAt"`
	UpdatedAt        time.Time            `json:"updatedAt"`
}

// lookups resolves category, brand and stock for a batch of products
type lookups struct {
	categories map[uuid.UUID]string
	brands     map[uuid.UUID]string
	stock      map[uuid.UUID]*inventory.Inventory
}

func (l lookups) summary(p *catalog.Product) ProductSummary {
	s := ProductSummary{
		ID:              p.ID,
		SKU:             p.SKU,
		Name:            p.Name,
		ListedPrice:     p.ListedPrice,
		Price:           p.Price,
		DiscountPercent: p.DiscountPercent(),
		ThumbnailURL:    p.ThumbnailURL,
		Active:          p.Active,
		Rating:          p.RatingAverage,
		ReviewCount:     p.ReviewCount,
	}
	if inv, ok := l.stock[p.ID]; ok {
		s.AvailableStock = inv.Available()
		s.InStock = inv.InStock()
	}
	if p.CategoryID != nil {
		if name, ok := l.categories[*p.CategoryID]; ok {
			s.Category = &NamedRef{ID: *p.CategoryID, Name: name}
		}
	}
	if p.BrandID != nil {
		if name, ok := l.brands[*p.BrandID]; ok {
			s.Brand = &NamedRef{ID: *p.BrandID, Name: name}
		}
	}
	return s
}

// CategoryRequest creates or updates a category
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=1000"`
	ImageURL    string `json:"imageUrl" binding:"omitempty,max=500"`
	Active      *bool  `json:"active"`
}

// CategoryResponse is a category
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToCategoryResponse converts a domain category
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// BrandRequest creates or updates a brand
type BrandRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=1000"`
	LogoURL     string `json:"logoUrl" binding:"omitempty,max=500"`
	Active      *bool  `json:"active"`
}

// BrandResponse is a brand
type BrandResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	LogoURL     string    `json:"logoUrl"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToBrandResponse converts a domain brand
func ToBrandResponse(b *catalog.Brand) BrandResponse {
	return BrandResponse{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		LogoURL:     b.LogoURL,
		Active:      b.Active,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// CreateReviewRequest is a customer review
type CreateReviewRequest struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Rating    int       `json:"rating" binding:"required,min=1,max=5"`
	Comment   string    `json:"comment" binding:"max=2000"`
}

// ReviewListFilter is the admin review search
type ReviewListFilter struct {
	ProductID *uuid.UUID `form:"productId"`
	UserID    *uuid.UUID `form:"userId"`
	Status    string     `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	Rating    *int       `form:"rating" binding:"omitempty,min=1,max=5"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ReviewResponse is a review
type ReviewResponse struct {
	ID          uuid.UUID  `json:"id"`
	ProductID   uuid.UUID  `json:"productId"`
	UserID      uuid.UUID  `json:"userId"`
	OrderItemID *uuid.UUID `json:"orderItemId,omitempty"`
	Rating      int        `json:"rating"`
	Comment     string     `json:"comment"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// ToReviewResponse converts a domain review
func ToReviewResponse(r *catalog.Review) ReviewResponse {
	return ReviewResponse{
		ID:          r.ID,
		ProductID:   r.ProductID,
		UserID:      r.UserID,
		OrderItemID: r.OrderItemID,
		Rating:      r.Rating,
		Comment:     r.Comment,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt,
	}
}
