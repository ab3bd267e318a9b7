package catalog

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/shared"
	"github.com/secureshop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

var skuRegex = regexp.MustCompile(`^[A-Za-z0-9\-_.]+$`)

// Field limits
const (
	MaxSKULength              = 100
	MaxProductNameLength      = 255
	MaxShortDescriptionLength = 500
	MaxDescriptionLength      = 5000
)

// ErrProductUnavailable is returned when an inactive or deleted product is bought
var ErrProductUnavailable = shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is not available for sale")

// MediaAsset is an image attached to a product
type MediaAsset struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
}

// Product is a sellable item in the storefront.
type Product struct {
	shared.BaseAggregateRoot
	SKU              string
	Name             string
	ShortDescription string
	Description      string
	ListedPrice      valueobject.Money
	Price            valueobject.Money
	Active           bool
	CategoryID       *uuid.UUID
	BrandID          *uuid.UUID
	ThumbnailURL     string
	Media            []MediaAsset
	Features         []string
	Specifications   map[string]string
	RatingAverage    decimal.Decimal
	ReviewCount      int
	DeletedAt        *time.Time
}

// ProductInput carries every editable product field
type ProductInput struct {
	SKU              string
	Name             string
	ShortDescription string
	Description      string
	ListedPrice      decimal.Decimal
	Price            decimal.Decimal
	Active           bool
	CategoryID       *uuid.UUID
	BrandID          *uuid.UUID
	ThumbnailURL     string
	Media            []MediaAsset
	Features         []string
	Specifications   map[string]string
}

// NewProduct validates input and creates an active product
func NewProduct(in ProductInput) (*Product, error) {
	p := &Product{BaseAggregateRoot: shared.NewBaseAggregateRoot(), RatingAverage: decimal.Zero}
	if err := p.apply(in); err != nil {
		return nil, err
	}
	p.AddDomainEvent(NewProductCreatedEvent(p))
	return p, nil
}

// Update replaces the editable fields
func (p *Product) Update(in ProductInput) error {
	oldPrice := p.Price
	if err := p.apply(in); err != nil {
		return err
	}
	p.MarkModified()
	if !oldPrice.Equals(p.Price) {
		p.AddDomainEvent(NewProductPriceChangedEvent(p, oldPrice))
	}
	return nil
}

func (p *Product) apply(in ProductInput) error {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	if err := validateSKU(in.SKU); err != nil {
		return err
	}
	if in.Name == "" || len([]rune(in.Name)) > MaxProductNameLength {
		return shared.NewDomainError("INVALID_NAME", "Product name must be 1-255 characters")
	}
	if len([]rune(in.ShortDescription)) > MaxShortDescriptionLength {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Short description cannot exceed 500 characters")
	}
	if len([]rune(in.Description)) > MaxDescriptionLength {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 5000 characters")
	}
	if err := validatePrices(in.ListedPrice, in.Price); err != nil {
		return err
	}

	p.SKU = in.SKU
	p.Name = in.Name
	p.ShortDescription = in.ShortDescription
	p.Description = in.Description
	p.ListedPrice = valueobject.VNDOf(in.ListedPrice)
	p.Price = valueobject.VNDOf(in.Price)
	p.Active = in.Active
	p.CategoryID = in.CategoryID
	p.BrandID = in.BrandID
	p.ThumbnailURL = in.ThumbnailURL
	p.Media = in.Media
	p.Features = in.Features
	p.Specifications = in.Specifications
	if p.Media == nil {
		p.Media = []MediaAsset{}
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	if p.Specifications == nil {
		p.Specifications = map[string]string{}
	}
	if p.ThumbnailURL == "" && len(p.Media) > 0 {
		p.ThumbnailURL = p.Media[0].URL
	}
	return nil
}

// Activate puts the product on sale
func (p *Product) Activate() error {
	if p.IsDeleted() {
		return shared.ErrInvalidState.WithMessage("Deleted products cannot be activated")
	}
	if p.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}
	p.Active = true
	p.MarkModified()
	p.AddDomainEvent(NewProductStatusChangedEvent(p))
	return nil
}

// Deactivate hides the product from the storefront
func (p *Product) Deactivate() error {
	if !p.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}
	p.Active = false
	p.MarkModified()
	p.AddDomainEvent(NewProductStatusChangedEvent(p))
	return nil
}

// SoftDelete hides the product permanently while keeping order history intact
func (p *Product) SoftDelete() {
	now := time.Now()
	p.DeletedAt = &now
	p.Active = false
	p.MarkModified()
	p.AddDomainEvent(NewProductDeletedEvent(p))
}

func (p *Product) IsDeleted() bool { return p.DeletedAt != nil }

// IsPurchasable is true for active, non-deleted products
func (p *Product) IsPurchasable() bool {
	return p.Active && !p.IsDeleted()
}

// ApplyRating stores a recomputed rating summary
func (p *Product) ApplyRating(average decimal.Decimal, count int) {
	p.RatingAverage = average.Round(1)
	p.ReviewCount = count
	p.MarkModified()
}

// DiscountPercent is the markdown from the listed price, in whole percent
func (p *Product) DiscountPercent() int {
	if !p.ListedPrice.IsPositive() || !p.Price.Amount().LessThan(p.ListedPrice.Amount()) {
		return 0
	}
	off := p.ListedPrice.Amount().Sub(p.Price.Amount()).Div(p.ListedPrice.Amount()).Mul(decimal.NewFromInt(100))
	return int(off.Round(0).IntPart())
}

func validateSKU(sku string) error {
	if sku == "" || len(sku) > MaxSKULength {
		return shared.NewDomainError("INVALID_SKU", "SKU must be 1-100 characters")
	}
	if !skuRegex.MatchString(sku) {
		return shared.NewDomainError("INVALID_SKU", "SKU may only contain letters, digits, '-', '_' and '.'")
	}
	return nil
}

func validatePrices(listed, price decimal.Decimal) error {
	if !listed.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Listed price must be greater than 0")
	}
	if !price.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Price must be greater than 0")
	}
	if price.GreaterThan(listed) {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot exceed the listed price")
	}
	return nil
}
