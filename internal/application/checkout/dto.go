package checkout

import (
	"github.com/google/uuid"
	orderapp "github.com/secureshop/backend/internal/application/order"
	"github.com/secureshop/backend/internal/domain/order"
	"github.com/secureshop/backend/internal/domain/shared/valueobject"
)

// Item is a product and quantity submitted at checkout
type Item struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=999"`
}

// QuoteRequest prices items, or the caller's cart when Items is empty
type QuoteRequest struct {
	Items          []Item `json:"items" binding:"omitempty,dive"`
	CouponCode     string `json:"couponCode" binding:"max=50"`
	ShippingMethod string `json:"shippingMethod" binding:"omitempty,oneof=standard express"`
}

// PlaceOrderRequest places an order. Items defaults to the caller's cart.
type PlaceOrderRequest struct {
	Items          []Item                       `json:"items" binding:"omitempty,dive"`
	ShippingInfo   orderapp.ShippingInfoRequest `json:"shippingInfo" binding:"required"`
	ShippingMethod string                       `json:"shippingMethod" binding:"omitempty,oneof=standard express"`
	PaymentMethod  string                       `json:"paymentMethod" binding:"required,oneof=cod bank_transfer e_wallet"`
	CouponCode     string                       `json:"couponCode" binding:"max=50"`
}

// QuoteLineResponse is one priced line
type QuoteLineResponse struct {
	ProductID    uuid.UUID         `json:"productId"`
	SKU          string            `json:"sku"`
	Name         string            `json:"name"`
	ThumbnailURL string            `json:"thumbnailUrl"`
	UnitPrice    valueobject.Money `json:"unitPrice"`
	Quantity     int               `json:"quantity"`
	LineTotal    valueobject.Money `json:"lineTotal"`
}

// QuoteResponse is the price breakdown shown before placing an order
type QuoteResponse struct {
	Lines          []QuoteLineResponse `json:"lines"`
	Subtotal       valueobject.Money   `json:"subtotal"`
	Discount       valueobject.Money   `json:"discount"`
	ShippingFee    valueobject.Money   `json:"shippingFee"`
	Total          valueobject.Money   `json:"total"`
	CouponCode     string              `json:"couponCode,omitempty"`
	ShippingMethod string              `json:"shippingMethod"`
}

// PlaceOrderResult is the placed order. Replayed is set when an earlier
// request with the same Idempotency-Key already created it.
type PlaceOrderResult struct {
	Order    orderapp.OrderResponse
	Replayed bool
}

func toQuoteResponse(q *order.Quote, method order.ShippingMethod) *QuoteResponse {
	lines := make([]QuoteLineResponse, len(q.Lines))
	for i, l := range q.Lines {
		lines[i] = QuoteLineResponse{
			ProductID:    l.ProductID,
			SKU:          l.SKU,
			Name:         l.Name,
			ThumbnailURL: l.ThumbnailURL,
			UnitPrice:    l.UnitPrice,
			Quantity:     l.Quantity,
			LineTotal:    l.Total(),
		}
	}
	return &QuoteResponse{
		Lines:          lines,
		Subtotal:       q.Subtotal,
		Discount:       q.Discount,
		ShippingFee:    q.ShippingFee,
		Total:          q.Total,
		CouponCode:     q.CouponCode,
		ShippingMethod: string(method),
	}
}
