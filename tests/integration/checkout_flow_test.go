package integration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	checkoutapp "github.com/secureshop/backend/internal/application/checkout"
	inventoryapp "github.com/secureshop/backend/internal/application/inventory"
	orderapp "github.com/secureshop/backend/internal/application/order"
	promotionapp "github.com/secureshop/backend/internal/application/promotion"
	"github.com/secureshop/backend/internal/domain/order"
	"github.com/secureshop/backend/internal/domain/promotion"
	"github.com/secureshop/backend/internal/domain/shared"
	"github.com/secureshop/backend/internal/infrastructure/event"
	"github.com/secureshop/backend/internal/infrastructure/persistence"
	"github.com/secureshop/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// checkoutSetup wires checkout, order and inventory services to one database
type checkoutSetup struct {
	DB        *TestDB
	Checkout  *checkoutapp.Service
	Orders    *orderapp.OrderService
	Discounts *persistence.GormDiscountRepository
	Outbox    *persistence.GormOutboxRepository
	Events    *event.EventSerializer
}

func newCheckoutSetup(t *testing.T) *checkoutSetup {
	t.Helper()

	db := NewTestDB(t)
	log := zap.NewNop()

	productRepo := persistence.NewGormProductRepository(db.DB)
	inventoryRepo := persistence.NewGormInventoryRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	discountRepo := persistence.NewGormDiscountRepository(db.DB)
	outboxRepo := persistence.NewGormOutboxRepository(db.DB)
	tx := persistence.NewTxManager(db.DB)

	serializer := event.NewEventSerializer()
	event.RegisterAllEvents(serializer)
	publisher := event.NewOutboxPublisher(outboxRepo, serializer, 5)

	stock := inventoryapp.NewInventoryService(inventoryRepo, movementRepo, productRepo, tx, publisher, log)
	discounts := promotionapp.NewDiscountService(discountRepo, log)

	return &checkoutSetup{
		DB:        db,
		Checkout:  checkoutapp.NewService(productRepo, cartRepo, orderRepo, stock, discounts, tx, publisher, log),
		Orders:    orderapp.NewOrderService(orderRepo, stock, tx, publisher, nil, nil, log),
		Discounts: discountRepo,
		Outbox:    outboxRepo,
		Events:    serializer,
	}
}

func placeRequest(items ...checkoutapp.Item) checkoutapp.PlaceOrderRequest {
	return checkoutapp.PlaceOrderRequest{
		Items: items,
		ShippingInfo: orderapp.ShippingInfoRequest{
			FullName: "Nguyen Van A",
			Phone:    "0901234567",
			Email:    "a@example.com",
			Address:  "12 Le Loi",
			Ward:     "Ben Nghe",
			District: "District 1",
			City:     "Ho Chi Minh",
		},
		ShippingMethod: "standard",
		PaymentMethod:  "cod",
	}
}

func TestCheckout_PlaceAndCancelMovesStock(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	s := newCheckoutSetup(t)
	ctx := context.Background()
	customer := s.DB.SeedUser("buyer@example.com")
	phone := s.DB.SeedProduct("PHONE-1", 5_000_000, 10)
	cable := s.DB.SeedProduct("CABLE-1", 150_000, 3)

	result, err := s.Checkout.PlaceOrder(ctx, customer.ID, "", placeRequest(
		checkoutapp.Item{ProductID: phone.ID, Quantity: 2},
		checkoutapp.Item{ProductID: cable.ID, Quantity: 3},
	))
	require.NoError(t, err)

	placed := result.Order
	assert.Equal(t, string(order.StatusPending), placed.Status)
	assert.Len(t, placed.Items, 2)
	assert.True(t, placed.Subtotal.Amount().Equal(decimal.NewFromInt(10_450_000)), placed.Subtotal.String())
	expectedTotal := placed.Subtotal.MustAdd(placed.ShippingFee)
	assert.True(t, placed.GrandTotal.Equals(expectedTotal))

	assert.Equal(t, 2, s.DB.Stock(phone.ID).Reserved)
	assert.Equal(t, 3, s.DB.Stock(cable.ID).Reserved)
	assert.Equal(t, 0, s.DB.Stock(cable.ID).Available())

	t.Run("sold out product is refused", func(t *testing.T) {
		_, err := s.Checkout.PlaceOrder(ctx, customer.ID, "", placeRequest(
			checkoutapp.Item{ProductID: cable.ID, Quantity: 1},
		))
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock), err.Error())
		assert.Equal(t, 2, s.DB.Stock(phone.ID).Reserved, "failed order must not hold stock")
	})

	t.Run("another customer cannot cancel", func(t *testing.T) {
		stranger := orderapp.Actor{UserID: uuid.New()}
		_, err := s.Orders.Cancel(ctx, stranger, placed.ID, "not mine")
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("owner cancels and stock returns", func(t *testing.T) {
		cancelled, err := s.Orders.Cancel(ctx, orderapp.Actor{UserID: customer.ID}, placed.ID, "changed my mind")
		require.NoError(t, err)

		assert.Equal(t, string(order.StatusCancelled), cancelled.Status)
		assert.Equal(t, "changed my mind", cancelled.CancelReason)
		assert.Equal(t, 0, s.DB.Stock(phone.ID).Reserved)
		assert.Equal(t, 3, s.DB.Stock(cable.ID).Available())
	})
}

func TestCheckout_ConcurrentOrdersNeverOversell(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	s := newCheckoutSetup(t)
	ctx := context.Background()
	product := s.DB.SeedProduct("LIMITED-1", 990_000, 3)

	const buyers = 8
	customers := make([]uuid.UUID, buyers)
	for i := range customers {
		customers[i] = s.DB.SeedUser(fmt.Sprintf("buyer%d@example.com", i)).ID
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		soldOut   int
	)
	for _, id := range customers {
		wg.Add(1)
		go func(userID uuid.UUID) {
			defer wg.Done()
			_, err := s.Checkout.PlaceOrder(ctx, userID, "", placeRequest(
				checkoutapp.Item{ProductID: product.ID, Quantity: 1},
			))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, shared.ErrInsufficientStock):
				soldOut++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 3, succeeded)
	assert.Equal(t, buyers-3, soldOut)
	stock := s.DB.Stock(product.ID)
	assert.Equal(t, 3, stock.Reserved)
	assert.Equal(t, 0, stock.Available())
}

func TestCheckout_CouponUsageLimit(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	s := newCheckoutSetup(t)
	ctx := context.Background()
	product := s.DB.SeedProduct("SHOE-1", 1_000_000, 10)

	maxUsage := 1
	discount, err := promotion.NewDiscount(promotion.DiscountInput{
		Code:     "ONCE10",
		Type:     promotion.DiscountPercentage,
		Value:    decimal.NewFromInt(10),
		MaxUsage: &maxUsage,
		StartsAt: time.Now().Add(-time.Hour),
		EndsAt:   time.Now().Add(time.Hour),
		Active:   true,
	})
	require.NoError(t, err)
	require.NoError(t, s.Discounts.Create(ctx, discount))

	req := placeRequest(checkoutapp.Item{ProductID: product.ID, Quantity: 1})
	req.CouponCode = "once10"

	first, err := s.Checkout.PlaceOrder(ctx, s.DB.SeedUser("first@example.com").ID, "", req)
	require.NoError(t, err)
	assert.Equal(t, "ONCE10", first.Order.CouponCode)
	assert.True(t, first.Order.DiscountTotal.Amount().Equal(decimal.NewFromInt(100_000)))

	_, err = s.Checkout.PlaceOrder(ctx, s.DB.SeedUser("second@example.com").ID, "", req)
	require.Error(t, err)
	assert.Equal(t, 1, s.DB.Stock(product.ID).Reserved, "rejected coupon must roll back the reservation")

	stored, err := s.Discounts.FindByCode(ctx, "ONCE10")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.UsedCount)
}

func TestCheckout_EventsReachSubscribersThroughOutbox(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	s := newCheckoutSetup(t)
	ctx := context.Background()
	customer := s.DB.SeedUser("events@example.com")
	product := s.DB.SeedProduct("WATCH-1", 2_500_000, 5)

	bus := event.NewInMemoryEventBus(zap.NewNop())
	require.NoError(t, bus.Start(ctx))
	t.Cleanup(func() { _ = bus.Stop(context.Background()) })

	handler := testutil.NewMockEventHandler(order.EventTypeOrderPlaced, order.EventTypeOrderCancelled)
	bus.Subscribe(handler, handler.EventTypes()...)

	processor := event.NewOutboxProcessor(s.Outbox, bus, s.Events, event.DefaultOutboxProcessorConfig(), zap.NewNop())

	result, err := s.Checkout.PlaceOrder(ctx, customer.ID, "", placeRequest(
		checkoutapp.Item{ProductID: product.ID, Quantity: 1},
	))
	require.NoError(t, err)
	_, err = s.Orders.Cancel(ctx, orderapp.Actor{UserID: customer.ID}, result.Order.ID, "duplicate")
	require.NoError(t, err)

	assert.Equal(t, 0, handler.HandledCount(), "nothing is delivered before the outbox is drained")
	processor.ProcessBatch(ctx)

	require.True(t, testutil.WaitForEventCount(t, handler, 2, 2*time.Second))
	types := testutil.EventTypesOf(handler.Handled())
	assert.ElementsMatch(t, []string{order.EventTypeOrderPlaced, order.EventTypeOrderCancelled}, types)
	for _, ev := range handler.Handled() {
		assert.Equal(t, result.Order.ID, ev.AggregateID())
	}

	assert.Zero(t, processor.ProcessBatch(ctx), "delivered entries are not sent twice")
}
