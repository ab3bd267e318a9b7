package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/order"
	"github.com/secureshop/backend/internal/domain/shared"
	"github.com/secureshop/backend/internal/domain/shared/valueobject"
)

// Provider is the party that collects the money
type Provider string

const (
	ProviderVNPay        Provider = "VNPAY"
	ProviderCOD          Provider = "COD"
	ProviderBankTransfer Provider = "BANK_TRANSFER"
)

// ProviderFor maps a checkout payment method to its provider
func ProviderFor(method order.PaymentMethod) Provider {
	switch method {
	case order.PaymentCOD:
		return ProviderCOD
	case order.PaymentBankTransfer:
		return ProviderBankTransfer
	}
	return ProviderVNPay
}

// Payment is the single payment record of an order.
type Payment struct {
	shared.BaseAggregateRoot
	OrderID         uuid.UUID
	Method          order.PaymentMethod
	Provider        Provider
	Status          order.PaymentStatus
	Amount          valueobject.Money
	TransactionNo   string
	TxnRef          string
	PaidAt          *time.Time
	GatewayResponse map[string]string
}

// New creates an unpaid payment for an order
func New(orderID uuid.UUID, method order.PaymentMethod, provider Provider, amount valueobject.Money) *Payment {
	return &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		Method:            method,
		Provider:          provider,
		Status:            order.PaymentUnpaid,
		Amount:            amount,
		GatewayResponse:   map[string]string{},
	}
}

// StartAttempt records the reference of a new gateway attempt
func (p *Payment) StartAttempt(txnRef string) {
	p.TxnRef = txnRef
	if p.Status == order.PaymentFailed {
		p.Status = order.PaymentUnpaid
	}
	p.MarkModified()
}

// Succeed marks the payment paid. It reports false when it already was.
func (p *Payment) Succeed(transactionNo string, at time.Time, response map[string]string) bool {
	if p.Status == order.PaymentPaid {
		return false
	}
	p.Status = order.PaymentPaid
	p.TransactionNo = transactionNo
	p.PaidAt = &at
	p.GatewayResponse = response
	p.MarkModified()
	return true
}

// Fail records a declined attempt. A paid payment is never downgraded.
func (p *Payment) Fail(transactionNo string, response map[string]string) {
	if p.Status == order.PaymentPaid {
		return
	}
	p.Status = order.PaymentFailed
	p.TransactionNo = transactionNo
	p.GatewayResponse = response
	p.MarkModified()
}

func (p *Payment) IsPaid() bool { return p.Status == order.PaymentPaid }
