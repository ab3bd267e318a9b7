package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sort keys accepted by product listings
const (
	SortCreatedAt = "created_at"
	SortPrice     = "price"
	SortName      = "name"
	SortRating    = "rating"
)

// ProductFilter narrows product listings
type ProductFilter struct {
	Search     string
	CategoryID *uuid.UUID
	BrandID    *uuid.UUID
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	InStock    *bool
	// ActiveOnly restricts to products visible in the storefront
	ActiveOnly bool
	SortBy     string
	SortOrder  string
	Page       int
	PageSize   int
}

// ProductRepository persists products. Soft-deleted rows are never returned.
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Product, error)
	ExistsBySKU(ctx context.Context, sku string, excludeID *uuid.UUID) (bool, error)
	FindAll(ctx context.Context, filter ProductFilter) ([]*Product, int64, error)
	Count(ctx context.Context) (int64, error)
}

// CategoryRepository persists categories
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindAll(ctx context.Context, activeOnly bool) ([]*Category, error)
	ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)
	HasProducts(ctx context.Context, id uuid.UUID) (bool, error)
}

// BrandRepository persists brands
type BrandRepository interface {
	Create(ctx context.Context, brand *Brand) error
	Update(ctx context.Context, brand *Brand) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Brand, error)
	FindAll(ctx context.Context, activeOnly bool) ([]*Brand, error)
	ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)
	HasProducts(ctx context.Context, id uuid.UUID) (bool, error)
}

// ReviewFilter narrows review listings
type ReviewFilter struct {
	ProductID *uuid.UUID
	UserID    *uuid.UUID
	Status    *ReviewStatus
	Rating    *int
	Page      int
	PageSize  int
}

// ReviewRepository persists reviews
type ReviewRepository interface {
	Create(ctx context.Context, review *Review) error
	Update(ctx context.Context, review *Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)
	FindAll(ctx context.Context, filter ReviewFilter) ([]*Review, int64, error)
	ExistsForUser(ctx context.Context, productID, userID uuid.UUID) (bool, error)
	// Summarize computes the rating summary over approved reviews
	Summarize(ctx context.Context, productID uuid.UUID) (RatingSummary, error)
}
