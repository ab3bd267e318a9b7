package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/order"
	"github.com/secureshop/backend/internal/domain/shared/valueobject"
)

// ShippingInfoRequest is the delivery address captured at checkout
type ShippingInfoRequest struct {
	FullName string `json:"fullName" binding:"required,max=255"`
	Phone    string `json:"phone" binding:"required,max=20"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Address  string `json:"address" binding:"required,max=500"`
	Ward     string `json:"ward" binding:"required,max=100"`
	District string `json:"district" binding:"required,max=100"`
	City     string `json:"city" binding:"max=100"`
	Note     string `json:"note" binding:"max=1000"`
}

// ToDomain converts the request into the domain value
func (r ShippingInfoRequest) ToDomain() order.ShippingInfo {
	return order.ShippingInfo{
		FullName: r.FullName,
		Phone:    r.Phone,
		Email:    r.Email,
		Address:  r.Address,
		Ward:     r.Ward,
		District: r.District,
		City:     r.City,
		Note:     r.Note,
	}
}

// UpdateOrderRequest replaces the shipping info of a pending order
type UpdateOrderRequest struct {
	ShippingInfo ShippingInfoRequest `json:"shippingInfo" binding:"required"`
}

// CancelOrderRequest optionally explains a cancellation
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// ConfirmOrderRequest carries the token from an order confirmation email
type ConfirmOrderRequest struct {
	Token string `json:"token" form:"token" binding:"required,max=128"`
}

// OrderListFilter is the admin order search
type OrderListFilter struct {
	Status        string     `form:"status" binding:"omitempty,oneof=PENDING WAITING_FOR_DELIVERY IN_TRANSIT DELIVERED CANCELLED"`
	PaymentStatus string     `form:"paymentStatus" binding:"omitempty,oneof=UNPAID PAID FAILED"`
	From          *time.Time `form:"from" time_format:"2006-01-02"`
	To            *time.Time `form:"to" time_format:"2006-01-02"`
	Search        string     `form:"search" binding:"max=100"`
	Page          int        `form:"page" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (f OrderListFilter) toDomain() order.Filter {
	out := order.Filter{From: f.From, Search: f.Search, Page: f.Page, PageSize: f.PageSize}
	if f.Status != "" {
		s := order.Status(f.Status)
		out.Status = &s
	}
	if f.PaymentStatus != "" {
		ps := order.PaymentStatus(f.PaymentStatus)
		out.PaymentStatus = &ps
	}
	if f.To != nil {
		// the to date is inclusive
		end := f.To.Add(24 * time.Hour)
		out.To = &end
	}
	if out.Page < 1 {
		out.Page = 1
	}
	if out.PageSize < 1 {
		out.PageSize = 20
	}
	return out
}

// OrderItemResponse is one purchased line
type OrderItemResponse struct {
	ID           uuid.UUID         `json:"id"`
	ProductID    uuid.UUID         `json:"productId"`
	SKU          string            `json:"sku"`
	Name         string            `json:"name"`
	ThumbnailURL string            `json:"thumbnailUrl"`
	UnitPrice    valueobject.Money `json:"unitPrice"`
	Quantity     int               `json:"quantity"`
	LineTotal    valueobject.Money `json:"lineTotal"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID             uuid.UUID           `json:"id"`
	UserID         uuid.UUID           `json:"userId"`
	Status         string              `json:"status"`
	PaymentStatus  string              `json:"paymentStatus"`
	PaymentMethod  string              `json:"paymentMethod"`
	ShippingMethod string              `json:"shippingMethod"`
	Subtotal       valueobject.Money   `json:"subtotal"`
	DiscountTotal  valueobject.Money   `json:"discountTotal"`
	ShippingFee    valueobject.Money   `json:"shippingFee"`
	GrandTotal     valueobject.Money   `json:"grandTotal"`
	CouponCode     string              `json:"couponCode,omitempty"`
	ShippingInfo   order.ShippingInfo  `json:"shippingInfo"`
	Items          []OrderItemResponse `json:"items"`
	HasPaid        bool                `json:"hasPaid"`
	ConfirmedAt    *time.Time          `json:"confirmedAt,omitempty"`
	ShippedAt      *time.Time          `json:"shippedAt,omitempty"`
	DeliveredAt    *time.Time          `json:"deliveredAt,omitempty"`
	CancelledAt    *time.Time          `json:"cancelledAt,omitempty"`
	CancelReason   string              `json:"cancelReason,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

// ToOrderResponse converts a domain order
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			ID:           it.ID,
			ProductID:    it.ProductID,
			SKU:          it.SKU,
			Name:         it.Name,
			ThumbnailURL: it.ThumbnailURL,
			UnitPrice:    it.UnitPrice,
			Quantity:     it.Quantity,
			LineTotal:    it.LineTotal,
		}
	}
	return OrderResponse{
		ID:             o.ID,
		UserID:         o.UserID,
		Status:         string(o.Status),
		PaymentStatus:  string(o.PaymentStatus),
		PaymentMethod:  string(o.PaymentMethod),
		ShippingMethod: string(o.ShippingMethod),
		Subtotal:       o.Subtotal,
		DiscountTotal:  o.DiscountTotal,
		ShippingFee:    o.ShippingFee,
		GrandTotal:     o.GrandTotal,
		CouponCode:     o.CouponCode,
		ShippingInfo:   o.Shipping,
		Items:          items,
		HasPaid:        o.HasPaid,
		ConfirmedAt:    o.ConfirmedAt,
		ShippedAt:      o.ShippedAt,
		DeliveredAt:    o.DeliveredAt,
		CancelledAt:    o.CancelledAt,
		CancelReason:   o.CancelReason,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}
