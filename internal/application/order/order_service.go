package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/order"
	"github.com/secureshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StockReserver moves order quantities through the reservation lifecycle.
// Calls run inside the caller's transaction.
type StockReserver interface {
	Reserve(ctx context.Context, orderID uuid.UUID, quantities map[uuid.UUID]int) error
	Release(ctx context.Context, orderID uuid.UUID, quantities map[uuid.UUID]int) error
	Consume(ctx context.Context, orderID uuid.UUID, quantities map[uuid.UUID]int) error
}

// InvoiceRenderer turns an order into a PDF invoice
type InvoiceRenderer interface {
	RenderInvoice(ctx context.Context, o *order.Order) ([]byte, error)
}

// Metrics records order activity
type Metrics interface {
	OrderPlaced(paymentMethod string, grandTotal float64)
	OrderTransitioned(status string)
}

type noopMetrics struct{}

func (noopMetrics) OrderPlaced(string, float64) {}
func (noopMetrics) OrderTransitioned(string) {}

// Actor is the caller of an order operation
type Actor struct {
	UserID  uuid.UUID
	IsAdmin bool
}

// Invoice is a rendered PDF with its download name
type Invoice struct {
	Filename string
	PDF      []byte
}

// OrderService handles order queries and the status lifecycle
type OrderService struct {
	orders   order.Repository
	stock    StockReserver
	tx       shared.Transactor
	events   shared.OutboxEventSaver
	invoices InvoiceRenderer
	metrics  Metrics
	logger   *zap.Logger
}

// NewOrderService creates a new OrderService. invoices and metrics may be nil.
func NewOrderService(
	orders order.Repository,
	stock StockReserver,
	tx shared.Transactor,
	events shared.OutboxEventSaver,
	invoices InvoiceRenderer,
	metrics Metrics,
	logger *zap.Logger,
) *OrderService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &OrderService{
		orders:   orders,
		stock:    stock,
		tx:       tx,
		events:   events,
		invoices: invoices,
		metrics:  metrics,
		logger:   logger.Named("orders"),
	}
}

// MyOrders lists the caller's orders, newest first
func (s *OrderService) MyOrders(ctx context.Context, userID uuid.UUID, page, pageSize int) (shared.Paginated[OrderResponse], error) {
	return s.list(ctx, OrderListFilter{Page: page, PageSize: pageSize}.toDomain(), &userID)
}

// List is the admin order search
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) (shared.Paginated[OrderResponse], error) {
	return s.list(ctx, filter.toDomain(), nil)
}

func (s *OrderService) list(ctx context.Context, f order.Filter, userID *uuid.UUID) (shared.Paginated[OrderResponse], error) {
	f.UserID = userID
	orders, total, err := s.orders.FindAll(ctx, f)
	if err != nil {
		return shared.Paginated[OrderResponse]{}, err
	}
	items := make([]OrderResponse, len(orders))
	for i, o := range orders {
		items[i] = ToOrderResponse(o)
	}
	return shared.NewPaginated(items, total, f.Page, f.PageSize), nil
}

// Get returns an order to its owner or an admin
func (s *OrderService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.visible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// visible loads an order the actor may see. Other users' orders look
// missing rather than forbidden.
func (s *OrderService) visible(ctx context.Context, actor Actor, id uuid.UUID) (*order.Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && !o.OwnedBy(actor.UserID) {
		return nil, shared.ErrNotFound.WithMessage("Order not found")
	}
	return o, nil
}

// Cancel aborts a pending order and releases its reserved stock
func (s *OrderService) Cancel(ctx context.Context, actor Actor, id uuid.UUID, reason string) (*OrderResponse, error) {
	return s.transition(ctx, id, func(ctx context.Context, o *order.Order) error {
		if !actor.IsAdmin && !o.OwnedBy(actor.UserID) {
			return shared.ErrNotFound.WithMessage("Order not found")
		}
		if err := o.Cancel(reason); err != nil {
			return err
		}
		return s.stock.Release(ctx, o.ID, o.Quantities())
	})
}

// Confirm accepts a pending order and takes its stock off the shelf
func (s *OrderService) Confirm(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, id, func(ctx context.Context, o *order.Order) error {
		if err := o.Confirm(); err != nil {
			return err
		}
		return s.stock.Consume(ctx, o.ID, o.Quantities())
	})
}

// Ship hands a confirmed order to the carrier
func (s *OrderService) Ship(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, id, func(_ context.Context, o *order.Order) error {
		return o.Ship()
	})
}

// Deliver completes an order. Cash on delivery orders become paid.
func (s *OrderService) Deliver(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, id, func(_ context.Context, o *order.Order) error {
		return o.Deliver()
	})
}

// transition locks the order, applies fn and saves the order with its
// events in one transaction
func (s *OrderService) transition(ctx context.Context, id uuid.UUID, fn func(ctx context.Context, o *order.Order) error) (*OrderResponse, error) {
	var saved *order.Order
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		o, err := s.orders.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		from := o.Status
		if err := fn(ctx, o); err != nil {
			s.logger.Warn("Order transition rejected",
				zap.String("order_id", id.String()),
				zap.String("status", string(from)),
				zap.Error(err))
			return err
		}
		if err := s.orders.Update(ctx, o); err != nil {
			return err
		}
		if err := s.events.SaveEvents(ctx, o.GetDomainEvents()...); err != nil {
			return err
		}
		o.ClearDomainEvents()
		s.logger.Info("Order status changed",
			zap.String("order_id", id.String()),
			zap.String("from", string(from)),
			zap.String("to", string(o.Status)))
		saved = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.OrderTransitioned(string(saved.Status))
	resp := ToOrderResponse(saved)
	return &resp, nil
}

// UpdateShipping replaces the address of a pending order
func (s *OrderService) UpdateShipping(ctx context.Context, id uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := o.UpdateShipping(req.ShippingInfo.ToDomain()); err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, err
	}
	s.logger.Info("Order shipping info updated", zap.String("order_id", id.String()))
	resp := ToOrderResponse(o)
	return &resp, nil
}

// Delete removes a cancelled order
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) error {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !o.CanDelete() {
		return shared.ErrInvalidState.WithMessage("Only cancelled orders can be deleted")
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Order deleted", zap.String("order_id", id.String()))
	return nil
}

// Invoice renders the PDF invoice of an order for its owner or an admin
func (s *OrderService) Invoice(ctx context.Context, actor Actor, id uuid.UUID) (*Invoice, error) {
	if s.invoices == nil {
		return nil, shared.NewDomainError("INVOICE_UNAVAILABLE", "Invoice rendering is not configured")
	}
	o, err := s.visible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	pdf, err := s.invoices.RenderInvoice(ctx, o)
	if err != nil {
		s.logger.Error("Invoice rendering failed", zap.String("order_id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("render invoice: %w", err)
	}
	return &Invoice{
		Filename: fmt.Sprintf("hoa-don-%s.pdf", o.ID.String()[:8]),
		PDF:      pdf,
	}, nil
}

// expireBatchSize is the page size used when collecting stale orders
const expireBatchSize = 100

// ExpireUnpaid cancels e-wallet orders still unpaid, or whose payment
// failed, after ttl and returns their stock. It returns how many orders
// were cancelled.
func (s *OrderService) ExpireUnpaid(ctx context.Context, ttl time.Duration) (int, error) {
	pending := order.StatusPending
	wallet := order.PaymentEWallet
	cutoff := time.Now().Add(-ttl)
	filter := order.Filter{
		Status:          &pending,
		PaymentStatuses: []order.PaymentStatus{order.PaymentUnpaid, order.PaymentFailed},
		PaymentMethod:   &wallet,
		To:              &cutoff,
		OldestFirst:     true,
		PageSize:        expireBatchSize,
	}

	// collect first, cancelling while paging would shift the offsets
	var stale []uuid.UUID
	for page := 1; ; page++ {
		filter.Page = page
		batch, _, err := s.orders.FindAll(ctx, filter)
		if err != nil {
			return 0, err
		}
		for _, o := range batch {
			stale = append(stale, o.ID)
		}
		if len(batch) < expireBatchSize {
			break
		}
	}

	system := Actor{IsAdmin: true}
	expired := 0
	for _, id := range stale {
		if _, err := s.Cancel(ctx, system, id, "Payment not received in time"); err != nil {
			// a concurrent payment or cancel wins
			s.logger.Warn("Could not expire order", zap.String("order_id", id.String()), zap.Error(err))
			continue
		}
		expired++
	}
	if expired > 0 {
		s.logger.Info("Expired unpaid orders", zap.Int("count", expired))
	}
	return expired, nil
}
