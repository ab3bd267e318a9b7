package cart

import (
	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/shared/valueobject"
)

// AddItemRequest adds a product to the cart. Quantity defaults to 1.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Quantity  int       `json:"quantity" binding:"omitempty,min=1,max=999"`
}

// UpdateItemRequest sets a line quantity; zero or less removes the line
type UpdateItemRequest struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Quantity  int       `json:"quantity" binding:"max=999"`
}

// GuestItem is one line of the client-side guest cart
type GuestItem struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Quantity  int       `json:"quantity" binding:"min=1,max=999"`
}

// MergeRequest carries the guest cart kept by the browser before login
type MergeRequest struct {
	Items []GuestItem `json:"items" binding:"max=100,dive"`
}

// CartItemResponse is one cart line with its product summary
type CartItemResponse struct {
	ProductID      uuid.UUID         `json:"productId"`
	SKU            string            `json:"sku"`
	Name           string            `json:"name"`
	ThumbnailURL   string            `json:"thumbnailUrl"`
	ListedPrice    valueobject.Money `json:"listedPrice"`
	UnitPrice      valueobject.Money `json:"unitPrice"`
	Quantity       int               `json:"quantity"`
	LineTotal      valueobject.Money `json:"lineTotal"`
	AvailableStock int               `json:"availableStock"`
	// Purchasable is false once the product was deactivated or deleted
	Purchasable bool `json:"purchasable"`
}

// CartResponse is the cart view returned by every cart operation
type CartResponse struct {
	Items    []CartItemResponse `json:"items"`
	Subtotal valueobject.Money  `json:"subtotal"`
	Count    int                `json:"count"`
}

// MergeResponse is the merged cart plus what could not be merged as asked
type MergeResponse struct {
	Cart    CartResponse `json:"cart"`
	Skipped []uuid.UUID  `json:"skipped"`
	Capped  []uuid.UUID  `json:"capped"`
}

// CountResponse is the number of units in the cart
type CountResponse struct {
	Count int `json:"count"`
}
