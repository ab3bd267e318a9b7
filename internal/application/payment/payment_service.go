package payment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/order"
	"github.com/secureshop/backend/internal/domain/payment"
	"github.com/secureshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// IPN response codes understood by VNPay
const (
	IPNSuccess          = "00"
	IPNOrderNotFound    = "01"
	IPNAlreadyConfirmed = "02"
	IPNInvalidAmount    = "04"
	IPNInvalidSignature = "97"
	IPNUnknownError     = "99"
)

// Metrics records gateway outcomes
type Metrics interface {
	PaymentResult(provider string, paid bool)
}

// PaymentService drives VNPay payments for orders
type PaymentService struct {
	orders   order.Repository
	payments payment.Repository
	gateway  Gateway
	tx       shared.Transactor
	events   shared.OutboxEventSaver
	metrics  Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewPaymentService creates a new PaymentService. metrics may be nil.
func NewPaymentService(
	orders order.Repository,
	payments payment.Repository,
	gateway Gateway,
	tx shared.Transactor,
	events shared.OutboxEventSaver,
	metrics Metrics,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		orders:   orders,
		payments: payments,
		gateway:  gateway,
		tx:       tx,
		events:   events,
		metrics:  metrics,
		logger:   logger.Named("payment"),
		now:      time.Now,
	}
}

// CreatePayment starts a VNPay attempt for an order the caller owns and
// returns the signed redirect URL
func (s *PaymentService) CreatePayment(ctx context.Context, userID uuid.UUID, clientIP string, req CreatePaymentRequest) (*CreatePaymentResponse, error) {
	o, err := s.orders.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if !o.OwnedBy(userID) {
		return nil, shared.ErrForbidden.WithMessage("You can only pay for your own orders")
	}
	if err := o.CheckPayable(); err != nil {
		return nil, err
	}

	p, err := s.paymentFor(ctx, o)
	if err != nil {
		return nil, err
	}
	if p.IsPaid() {
		return nil, order.ErrAlreadyPaid
	}
	txnRef := s.gateway.NewTxnRef(o.ID)
	p.StartAttempt(txnRef)
	if err := s.payments.Save(ctx, p); err != nil {
		return nil, err
	}

	url, err := s.gateway.PaymentURL(GatewayRequest{
		TxnRef:    txnRef,
		OrderID:   o.ID,
		Amount:    o.GrandTotal.MinorUnits(),
		OrderInfo: req.OrderInfo,
		BankCode:  req.BankCode,
		Locale:    req.Language,
		ClientIP:  clientIP,
		CreatedAt: s.now(),
	})
	if err != nil {
		s.logger.Error("Failed to build payment url", zap.String("order_id", o.ID.String()), zap.Error(err))
		return nil, err
	}
	s.logger.Info("Payment started",
		zap.String("order_id", o.ID.String()),
		zap.String("txn_ref", txnRef),
		zap.Int64("amount", o.GrandTotal.MinorUnits()))
	return &CreatePaymentResponse{Code: "00", Message: "success", PaymentURL: url}, nil
}

// HandleCallback processes the customer's return from VNPay
func (s *PaymentService) HandleCallback(ctx context.Context, params map[string]string) (*CallbackResponse, error) {
	res, err := s.gateway.ParseResult(params)
	if err != nil {
		s.logger.Warn("Rejected payment callback", zap.Error(err))
		return nil, err
	}
	if res.OrderID == uuid.Nil {
		return nil, shared.ErrNotFound.WithMessage("Order not found")
	}
	if err := s.apply(ctx, res); err != nil {
		return nil, err
	}
	return toCallbackResponse(res), nil
}

// HandleIPN processes VNPay's server-to-server notification. It never
// fails; the outcome is reported in the response code.
func (s *PaymentService) HandleIPN(ctx context.Context, params map[string]string) IPNResponse {
	res, err := s.gateway.ParseResult(params)
	if err != nil {
		if errors.Is(err, ErrInvalidSignature) {
			return IPNResponse{RspCode: IPNInvalidSignature, Message: "Invalid signature"}
		}
		return IPNResponse{RspCode: IPNUnknownError, Message: "Invalid request"}
	}
	if res.OrderID == uuid.Nil {
		return IPNResponse{RspCode: IPNOrderNotFound, Message: "Order not found"}
	}

	o, err := s.orders.FindByID(ctx, res.OrderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return IPNResponse{RspCode: IPNOrderNotFound, Message: "Order not found"}
		}
		s.logger.Error("IPN order lookup failed", zap.Error(err))
		return IPNResponse{RspCode: IPNUnknownError, Message: "Unknown error"}
	}
	if res.Amount != o.GrandTotal.MinorUnits() {
		s.logger.Warn("IPN amount mismatch",
			zap.String("order_id", o.ID.String()),
			zap.Int64("expected", o.GrandTotal.MinorUnits()),
			zap.Int64("received", res.Amount))
		return IPNResponse{RspCode: IPNInvalidAmount, Message: "Invalid amount"}
	}
	if o.HasPaid {
		return IPNResponse{RspCode: IPNAlreadyConfirmed, Message: "Order already confirmed"}
	}

	if err := s.apply(ctx, res); err != nil {
		s.logger.Error("IPN update failed", zap.String("order_id", o.ID.String()), zap.Error(err))
		return IPNResponse{RspCode: IPNUnknownError, Message: "Unknown error"}
	}
	return IPNResponse{RspCode: IPNSuccess, Message: "Confirm Success"}
}

// ValidateSignature checks a set of gateway parameters without side effects
func (s *PaymentService) ValidateSignature(params map[string]string) bool {
	return s.gateway.VerifySignature(params)
}

// apply records the gateway outcome on the payment and the order. Repeated
// notifications for a paid order change nothing.
func (s *PaymentService) apply(ctx context.Context, res *GatewayResult) error {
	paid := res.Success()
	changed := false
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		o, err := s.orders.FindByIDForUpdate(ctx, res.OrderID)
		if err != nil {
			return err
		}
		p, err := s.paymentFor(ctx, o)
		if err != nil {
			return err
		}
		if res.TxnRef != "" {
			p.TxnRef = res.TxnRef
		}

		if paid {
			changed = p.Succeed(res.TransactionNo, res.PaidAt, res.Raw)
			if o.MarkPaid() {
				changed = true
			}
		} else if !o.HasPaid {
			p.Fail(res.TransactionNo, res.Raw)
			o.MarkPaymentFailed()
			changed = true
		}
		if !changed {
			return nil
		}
		if err := s.payments.Save(ctx, p); err != nil {
			return err
		}
		if err := s.orders.Update(ctx, o); err != nil {
			return err
		}
		if err := s.events.SaveEvents(ctx, o.GetDomainEvents()...); err != nil {
			return err
		}
		o.ClearDomainEvents()
		return nil
	})
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if s.metrics != nil {
		s.metrics.PaymentResult(string(payment.ProviderVNPay), paid)
	}
	if paid {
		s.logger.Info("Payment confirmed",
			zap.String("order_id", res.OrderID.String()),
			zap.String("transaction_no", res.TransactionNo))
	} else {
		s.logger.Info("Payment failed",
			zap.String("order_id", res.OrderID.String()),
			zap.String("response_code", res.ResponseCode))
	}
	return nil
}

func (s *PaymentService) paymentFor(ctx context.Context, o *order.Order) (*payment.Payment, error) {
	p, err := s.payments.FindByOrder(ctx, o.ID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return payment.New(o.ID, order.PaymentEWallet, payment.ProviderVNPay, o.GrandTotal), nil
}
