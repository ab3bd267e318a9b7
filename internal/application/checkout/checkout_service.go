package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	orderapp "github.com/secureshop/backend/internal/application/order"
	"github.com/secureshop/backend/internal/domain/cart"
	"github.com/secureshop/backend/internal/domain/catalog"
	"github.com/secureshop/backend/internal/domain/order"
	"github.com/secureshop/backend/internal/domain/promotion"
	"github.com/secureshop/backend/internal/domain/shared"
	"github.com/secureshop/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// StockReserver holds stock for a new order inside the caller's transaction
type StockReserver interface {
	Reserve(ctx context.Context, orderID uuid.UUID, quantities map[uuid.UUID]int) error
}

// Discounts resolves coupon codes
type Discounts interface {
	Resolve(ctx context.Context, userID *uuid.UUID, code string, subtotal valueobject.Money) (*promotion.Discount, valueobject.Money, error)
	Redeem(ctx context.Context, code string, userID, orderID uuid.UUID, subtotal valueobject.Money) (valueobject.Money, error)
}

// Metrics records placed orders
type Metrics interface {
	OrderPlaced(paymentMethod string, grandTotal float64)
}

// ErrRequestInProgress is returned while another request holds the same
// Idempotency-Key
var ErrRequestInProgress = shared.NewDomainError("REQUEST_IN_PROGRESS", "A request with this Idempotency-Key is still being processed")

// Service prices carts and places orders
type Service struct {
	products    catalog.ProductRepository
	carts       cart.Repository
	orders      order.Repository
	stock       StockReserver
	discounts   Discounts
	tx          shared.Transactor
	events      shared.OutboxEventSaver
	idempotency shared.IdempotencyStore
	fees        order.ShippingFees
	keyTTL      time.Duration
	metrics     Metrics
	logger      *zap.Logger
}

// Option configures optional collaborators of the Service
type Option func(*Service)

// WithIdempotency enables Idempotency-Key handling backed by store
func WithIdempotency(store shared.IdempotencyStore, ttl time.Duration) Option {
	return func(s *Service) {
		s.idempotency = store
		s.keyTTL = ttl
	}
}

// WithShippingFees overrides the default flat shipping fees
func WithShippingFees(fees order.ShippingFees) Option {
	return func(s *Service) { s.fees = fees }
}

// WithMetrics records every placed order
func WithMetrics(m Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates a new checkout Service
func NewService(
	products catalog.ProductRepository,
	carts cart.Repository,
	orders order.Repository,
	stock StockReserver,
	discounts Discounts,
	tx shared.Transactor,
	events shared.OutboxEventSaver,
	logger *zap.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		products:  products,
		carts:     carts,
		orders:    orders,
		stock:     stock,
		discounts: discounts,
		tx:        tx,
		events:    events,
		fees:      order.DefaultShippingFees(),
		keyTTL:    24 * time.Hour,
		logger:    logger.Named("checkout"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Quote prices the request. Guests (nil userID) must send items.
func (s *Service) Quote(ctx context.Context, userID *uuid.UUID, req QuoteRequest) (*QuoteResponse, error) {
	items, err := s.items(ctx, userID, req.Items)
	if err != nil {
		return nil, err
	}
	method := shippingMethod(req.ShippingMethod)
	q, err := s.price(ctx, userID, items, req.CouponCode, method)
	if err != nil {
		return nil, err
	}
	return toQuoteResponse(q, method), nil
}

// PlaceOrder creates a pending order for userID. A non-empty key makes
// the call idempotent: a replay returns the order created the first time.
func (s *Service) PlaceOrder(ctx context.Context, userID uuid.UUID, key string, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	if key == "" || s.idempotency == nil {
		o, err := s.place(ctx, userID, req)
		if err != nil {
			return nil, err
		}
		return &PlaceOrderResult{Order: orderapp.ToOrderResponse(o)}, nil
	}

	scoped := fmt.Sprintf("checkout:%s:%s", userID, key)
	if prior, ok, err := s.replay(ctx, scoped); err != nil || ok {
		return prior, err
	}
	claimed, err := s.idempotency.MarkProcessed(ctx, scoped, s.keyTTL)
	if err != nil {
		return nil, err
	}
	if !claimed {
		// the first request may have finished between the two calls
		if prior, ok, err := s.replay(ctx, scoped); err != nil || ok {
			return prior, err
		}
		return nil, ErrRequestInProgress
	}

	o, err := s.place(ctx, userID, req)
	if err != nil {
		if relErr := s.idempotency.Release(ctx, scoped); relErr != nil {
			s.logger.Warn("Failed to release idempotency key", zap.String("key", scoped), zap.Error(relErr))
		}
		return nil, err
	}
	if err := s.idempotency.SetResult(ctx, scoped, o.ID.String(), s.keyTTL); err != nil {
		s.logger.Warn("Failed to store idempotency result", zap.String("key", scoped), zap.Error(err))
	}
	return &PlaceOrderResult{Order: orderapp.ToOrderResponse(o)}, nil
}

func (s *Service) replay(ctx context.Context, key string) (*PlaceOrderResult, bool, error) {
	result, ok, err := s.idempotency.GetResult(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	id, err := uuid.Parse(result)
	if err != nil {
		return nil, false, fmt.Errorf("idempotency result %q: %w", result, err)
	}
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	s.logger.Info("Replayed order placement", zap.String("order_id", id.String()))
	return &PlaceOrderResult{Order: orderapp.ToOrderResponse(o), Replayed: true}, true, nil
}

func (s *Service) place(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*order.Order, error) {
	items, err := s.items(ctx, &userID, req.Items)
	if err != nil {
		return nil, err
	}
	method := shippingMethod(req.ShippingMethod)
	quote, err := s.price(ctx, &userID, items, req.CouponCode, method)
	if err != nil {
		return nil, err
	}
	o, err := order.Place(userID, quote, req.ShippingInfo.ToDomain(), method, order.PaymentMethod(req.PaymentMethod))
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.stock.Reserve(ctx, o.ID, o.Quantities()); err != nil {
			return err
		}
		if o.CouponCode != "" {
			// re-checked under the discount row lock
			amount, err := s.discounts.Redeem(ctx, o.CouponCode, userID, o.ID, o.Subtotal)
			if err != nil {
				return err
			}
			if !amount.Equals(o.DiscountTotal) {
				return shared.ErrConcurrencyConflict.WithMessage("Coupon changed while placing the order, please review the total")
			}
		}
		if err := s.orders.Create(ctx, o); err != nil {
			return err
		}
		if err := s.events.SaveEvents(ctx, o.GetDomainEvents()...); err != nil {
			return err
		}
		return s.clearPurchased(ctx, userID, o.ProductIDs())
	})
	if err != nil {
		s.logger.Warn("Order placement failed", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, err
	}
	o.ClearDomainEvents()

	if s.metrics != nil {
		s.metrics.OrderPlaced(string(o.PaymentMethod), o.GrandTotal.Float64())
	}
	s.logger.Info("Order placed",
		zap.String("order_id", o.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("payment_method", string(o.PaymentMethod)),
		zap.String("grand_total", o.GrandTotal.String()))
	return o, nil
}

func (s *Service) clearPurchased(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) error {
	c, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return err
	}
	if c.IsEmpty() {
		return nil
	}
	c.RemoveProducts(productIDs)
	return s.carts.Save(ctx, c)
}

// items returns the submitted items, or the user's cart when none are
// given, with duplicate products summed
func (s *Service) items(ctx context.Context, userID *uuid.UUID, submitted []Item) ([]Item, error) {
	if len(submitted) == 0 && userID != nil {
		c, err := s.carts.FindByUser(ctx, *userID)
		if err != nil {
			return nil, err
		}
		for _, it := range c.Items {
			submitted = append(submitted, Item{ProductID: it.ProductID, Quantity: it.Quantity})
		}
	}
	if len(submitted) == 0 {
		return nil, order.ErrCartEmpty
	}
	merged := make([]Item, 0, len(submitted))
	index := map[uuid.UUID]int{}
	for _, it := range submitted {
		if i, ok := index[it.ProductID]; ok {
			merged[i].Quantity += it.Quantity
			continue
		}
		index[it.ProductID] = len(merged)
		merged = append(merged, it)
	}
	return merged, nil
}

// price snapshots current product prices and builds the quote
func (s *Service) price(ctx context.Context, userID *uuid.UUID, items []Item, couponCode string, method order.ShippingMethod) (*order.Quote, error) {
	ids := make([]uuid.UUID, len(items))
	for i, it := range items {
		ids[i] = it.ProductID
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]order.Line, 0, len(items))
	for _, it := range items {
		p, ok := byID[it.ProductID]
		if !ok || !p.IsPurchasable() {
			return nil, shared.ErrNotFound.
				WithMessage("Product is no longer available").
				WithDetails(map[string]any{"productId": it.ProductID.String()})
		}
		lines = append(lines, order.Line{
			ProductID:    p.ID,
			SKU:          p.SKU,
			Name:         p.Name,
			ThumbnailURL: p.ThumbnailURL,
			UnitPrice:    p.Price,
			Quantity:     it.Quantity,
		})
	}

	fee, err := s.fees.Fee(method)
	if err != nil {
		return nil, err
	}
	discount := valueobject.ZeroVND()
	code := ""
	if couponCode != "" {
		subtotal, err := order.Subtotal(lines)
		if err != nil {
			return nil, err
		}
		d, amount, err := s.discounts.Resolve(ctx, userID, couponCode, subtotal)
		if err != nil {
			return nil, err
		}
		discount, code = amount, d.Code
	}
	return order.Price(lines, discount, fee, code)
}

func shippingMethod(raw string) order.ShippingMethod {
	if raw == "" {
		return order.ShippingStandard
	}
	return order.ShippingMethod(raw)
}
