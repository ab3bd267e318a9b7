package catalog

import (
	"github.com/secureshop/backend/internal/domain/shared"
	"github.com/secureshop/backend/internal/domain/shared/valueobject"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated       = "product.created"
	EventTypeProductPriceChanged  = "product.price_changed"
	EventTypeProductStatusChanged = "product.status_changed"
	EventTypeProductDeleted       = "product.deleted"
)

// ProductCreatedEvent is published when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	SKU   string            `json:"sku"`
	Name  string            `json:"name"`
	Price valueobject.Money `json:"price"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, p.ID),
		SKU:             p.SKU,
		Name:            p.Name,
		Price:           p.Price,
	}
}

// ProductPriceChangedEvent is published when the selling price changes
type ProductPriceChangedEvent struct {
	shared.BaseDomainEvent
	SKU      string            `json:"sku"`
	OldPrice valueobject.Money `json:"old_price"`
	NewPrice valueobject.Money `json:"new_price"`
}

// NewProductPriceChangedEvent creates a new ProductPriceChangedEvent
func NewProductPriceChangedEvent(p *Product, oldPrice valueobject.Money) *ProductPriceChangedEvent {
	return &ProductPriceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductPriceChanged, AggregateTypeProduct, p.ID),
		SKU:             p.SKU,
		OldPrice:        oldPrice,
		NewPrice:        p.Price,
	}
}

// ProductStatusChangedEvent is published on activate and deactivate
type ProductStatusChangedEvent struct {
	shared.BaseDomainEvent
	SKU    string `json:"sku"`
	Active bool   `json:"active"`
}

// NewProductStatusChangedEvent creates a new ProductStatusChangedEvent
func NewProductStatusChangedEvent(p *Product) *ProductStatusChangedEvent {
	return &ProductStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductStatusChanged, AggregateTypeProduct, p.ID),
		SKU:             p.SKU,
		Active:          p.Active,
	}
}

// ProductDeletedEvent is published when a product is soft deleted
type ProductDeletedEvent struct {
	shared.BaseDomainEvent
	SKU string `json:"sku"`
}

// NewProductDeletedEvent creates a new ProductDeletedEvent
func NewProductDeletedEvent(p *Product) *ProductDeletedEvent {
	return &ProductDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductDeleted, AggregateTypeProduct, p.ID),
		SKU:             p.SKU,
	}
}
