package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/order"
	"github.com/secureshop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderModel is the persistence model for the order header
type OrderModel struct {
	AggregateModel
	UserID         uuid.UUID                              `gorm:"type:uuid;not null;index"`
	Status         order.Status                           `gorm:"type:varchar(30);not null;index"`
	PaymentStatus  order.PaymentStatus                    `gorm:"type:varchar(20);not null;index"`
	PaymentMethod  order.PaymentMethod                    `gorm:"type:varchar(20);not null"`
	ShippingMethod order.ShippingMethod                   `gorm:"type:varchar(20);not null"`
	Subtotal       decimal.Decimal                        `gorm:"type:decimal(15,2);not null"`
	DiscountTotal  decimal.Decimal                        `gorm:"type:decimal(15,2);not null;default:0"`
	ShippingFee    decimal.Decimal                        `gorm:"type:decimal(15,2);not null;default:0"`
	GrandTotal     decimal.Decimal                        `gorm:"type:decimal(15,2);not null"`
	CouponCode     string                                 `gorm:"type:varchar(50)"`
	ShippingName   string                                 `gorm:"type:varchar(100);not null"`
	ShippingPhone  string                                 `gorm:"type:varchar(20);not null"`
	ShippingEmail  string                                 `gorm:"type:varchar(255);not null"`
	ShippingInfo   datatypes.JSONType[order.ShippingInfo] `gorm:"not null"`
	HasPaid        bool                                   `gorm:"not null;default:false"`
	ConfirmedAt    *time.Time
	ShippedAt      *time.Time
	DeliveredAt    *time.Time
	CancelledAt    *time.Time
	CancelReason   string           `gorm:"type:varchar(500)"`
	Items          []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is one line of an order
type OrderItemModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKU          string          `gorm:"type:varchar(100);not null"`
	Name         string          `gorm:"type:varchar(255);not null"`
	ThumbnailURL string          `gorm:"type:varchar(500)"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Quantity     int             `gorm:"not null"`
	LineTotal    decimal.Decimal `gorm:"type:decimal(15,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the model, with its preloaded items, to a domain order
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		BaseAggregateRoot: m.ToAggregateRoot(),
		UserID:            m.UserID,
		Status:            m.Status,
		PaymentStatus:     m.PaymentStatus,
		PaymentMethod:     m.PaymentMethod,
		ShippingMethod:    m.ShippingMethod,
		Subtotal:          valueobject.VNDOf(m.Subtotal),
		DiscountTotal:     valueobject.VNDOf(m.DiscountTotal),
		ShippingFee:       valueobject.VNDOf(m.ShippingFee),
		GrandTotal:        valueobject.VNDOf(m.GrandTotal),
		CouponCode:        m.CouponCode,
		Shipping:          m.ShippingInfo.Data(),
		HasPaid:           m.HasPaid,
		ConfirmedAt:       m.ConfirmedAt,
		ShippedAt:         m.ShippedAt,
		DeliveredAt:       m.DeliveredAt,
		CancelledAt:       m.CancelledAt,
		CancelReason:      m.CancelReason,
		Items:             make([]order.Item, 0, len(m.Items)),
	}
	for _, it := range m.Items {
		o.Items = append(o.Items, order.Item{
			ID:           it.ID,
			OrderID:      it.OrderID,
			ProductID:    it.ProductID,
			SKU:          it.SKU,
			Name:         it.Name,
			ThumbnailURL: it.ThumbnailURL,
			UnitPrice:    valueobject.VNDOf(it.UnitPrice),
			Quantity:     it.Quantity,
			LineTotal:    valueobject.VNDOf(it.LineTotal),
		})
	}
	return o
}

// OrderModelFromDomain creates a model, with items, from a domain order
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{
		UserID:         o.UserID,
		Status:         o.Status,
		PaymentStatus:  o.PaymentStatus,
		PaymentMethod:  o.PaymentMethod,
		ShippingMethod: o.ShippingMethod,
		Subtotal:       o.Subtotal.Amount(),
		DiscountTotal:  o.DiscountTotal.Amount(),
		ShippingFee:    o.ShippingFee.Amount(),
		GrandTotal:     o.GrandTotal.Amount(),
		CouponCode:     o.CouponCode,
		ShippingName:   o.Shipping.FullName,
		ShippingPhone:  o.Shipping.Phone,
		ShippingEmail:  o.Shipping.Email,
		ShippingInfo:   datatypes.NewJSONType(o.Shipping),
		HasPaid:        o.HasPaid,
		ConfirmedAt:    o.ConfirmedAt,
		ShippedAt:      o.ShippedAt,
		DeliveredAt:    o.DeliveredAt,
		CancelledAt:    o.CancelledAt,
		CancelReason:   o.CancelReason,
		Items:          make([]OrderItemModel, 0, len(o.Items)),
	}
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	for _, it := range o.Items {
		m.Items = append(m.Items, OrderItemModel{
			ID:           it.ID,
			OrderID:      o.ID,
			ProductID:    it.ProductID,
			SKU:          it.SKU,
			Name:         it.Name,
			ThumbnailURL: it.ThumbnailURL,
			UnitPrice:    it.UnitPrice.Amount(),
			Quantity:     it.Quantity,
			LineTotal:    it.LineTotal.Amount(),
		})
	}
	return m
}
