package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/promotion"
	"github.com/shopspring/decimal"
)

// DiscountModel is the persistence model for promotion.Discount
type DiscountModel struct {
	AggregateModel
	Code          string                 `gorm:"type:varchar(50);not null;uniqueIndex"`
	Description   string                 `gorm:"type:varchar(255)"`
	Type          promotion.DiscountType `gorm:"type:varchar(20);not null"`
	Value         decimal.Decimal        `gorm:"type:decimal(15,2);not null"`
	MinOrderValue *decimal.Decimal       `gorm:"type:decimal(15,2)"`
	MaxUsage      *int
	PerUserLimit  *int
	UsedCount     int       `gorm:"not null;default:0"`
	StartsAt      time.Time `gorm:"not null"`
	EndsAt        time.Time `gorm:"not null"`
	Active        bool      `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (DiscountModel) TableName() string {
	return "discounts"
}

// ToDomain converts the model to a domain discount
func (m *DiscountModel) ToDomain() *promotion.Discount {
	return &promotion.Discount{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Code:              m.Code,
		Description:       m.Description,
		Type:              m.Type,
		Value:             m.Value,
		MinOrderValue:     m.MinOrderValue,
		MaxUsage:          m.MaxUsage,
		PerUserLimit:      m.PerUserLimit,
		UsedCount:         m.UsedCount,
		StartsAt:          m.StartsAt,
		EndsAt:            m.EndsAt,
		Active:            m.Active,
	}
}

// DiscountModelFromDomain creates a model from a domain discount
func DiscountModelFromDomain(d *promotion.Discount) *DiscountModel {
	m := &DiscountModel{
		Code:          d.Code,
		Description:   d.Description,
		Type:          d.Type,
		Value:         d.Value,
		MinOrderValue: d.MinOrderValue,
		MaxUsage:      d.MaxUsage,
		PerUserLimit:  d.PerUserLimit,
		UsedCount:     d.UsedCount,
		StartsAt:      d.StartsAt,
		EndsAt:        d.EndsAt,
		Active:        d.Active,
	}
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	return m
}

// DiscountUsageModel records one redemption of a discount
type DiscountUsageModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	DiscountID uuid.UUID `gorm:"type:uuid;not null;index:idx_discount_usage_user,priority:1"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index:idx_discount_usage_user,priority:2"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	UsedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DiscountUsageModel) TableName() string {
	return "discount_usages"
}
