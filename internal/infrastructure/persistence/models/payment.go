package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/order"
	"github.com/secureshop/backend/internal/domain/payment"
	"github.com/secureshop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PaymentModel is the persistence model for payment.Payment
type PaymentModel struct {
	AggregateModel
	OrderID         uuid.UUID                             `gorm:"type:uuid;not null;uniqueIndex"`
	Method          order.PaymentMethod                   `gorm:"type:varchar(20);not null"`
	Provider        payment.Provider                      `gorm:"type:varchar(20);not null"`
	Status          order.PaymentStatus                   `gorm:"type:varchar(20);not null"`
	Amount          decimal.Decimal                       `gorm:"type:decimal(15,2);not null"`
	TransactionNo   string                                `gorm:"type:varchar(100)"`
	TxnRef          string                                `gorm:"type:varchar(100);index"`
	PaidAt          *time.Time
	GatewayResponse datatypes.JSONType[map[string]string] `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the model to a domain payment
func (m *PaymentModel) ToDomain() *payment.Payment {
	resp := m.GatewayResponse.Data()
	if resp == nil {
		resp = map[string]string{}
	}
	return &payment.Payment{
		BaseAggregateRoot: m.ToAggregateRoot(),
		OrderID:           m.OrderID,
		Method:            m.Method,
		Provider:          m.Provider,
		Status:            m.Status,
		Amount:            valueobject.VNDOf(m.Amount),
		TransactionNo:     m.TransactionNo,
		TxnRef:            m.TxnRef,
		PaidAt:            m.PaidAt,
		GatewayResponse:   resp,
	}
}

// PaymentModelFromDomain creates a model from a domain payment
func PaymentModelFromDomain(p *payment.Payment) *PaymentModel {
	m := &PaymentModel{
		OrderID:         p.OrderID,
		Method:          p.Method,
		Provider:        p.Provider,
		Status:          p.Status,
		Amount:          p.Amount.Amount(),
		TransactionNo:   p.TransactionNo,
		TxnRef:          p.TxnRef,
		PaidAt:          p.PaidAt,
		GatewayResponse: datatypes.NewJSONType(p.GatewayResponse),
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}
