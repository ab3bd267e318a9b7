package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/catalog"
	"github.com/secureshop/backend/internal/domain/inventory"
	"github.com/secureshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// MockInventoryRepository is a mock implementation of inventory.Repository
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) Create(ctx context.Context, inv *inventory.Inventory) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *MockInventoryRepository) Save(ctx context.Context, inv *inventory.Inventory) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *MockInventoryRepository) FindByProduct(ctx context.Context, productID uuid.UUID) (*inventory.Inventory, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) FindByProducts(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]*inventory.Inventory, error) {
	args := m.Called(ctx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*inventory.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) LockByProducts(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]*inventory.Inventory, error) {
	args := m.Called(ctx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*inventory.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) FindAll(ctx context.Context, filter inventory.Filter) ([]*inventory.Inventory, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*inventory.Inventory), args.Get(1).(int64), args.Error(2)
}

func (m *MockInventoryRepository) CountInStock(ctx context.Context) (int64, int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

// MockMovementRepository is a mock implementation of inventory.MovementRepository
type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) Append(ctx context.Context, movements ...*inventory.Movement) error {
	return m.Called(ctx, movements).Error(0)
}

func (m *MockMovementRepository) FindByProduct(ctx context.Context, productID uuid.UUID, page, pageSize int) ([]*inventory.Movement, int64, error) {
	args := m.Called(ctx, productID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*inventory.Movement), args.Get(1).(int64), args.Error(2)
}

// MockProductRepository implements only the lookups stock views need
type MockProductRepository struct {
	mock.Mock
	catalog.ProductRepository
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Product), args.Error(1)
}

// MockEventSaver records events written to the outbox
type MockEventSaver struct {
	mock.Mock
}

func (m *MockEventSaver) SaveEvents(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

type fakeTx struct{}

func (fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type inventoryFixture struct {
	stock     *MockInventoryRepository
	movements *MockMovementRepository
	products  *MockProductRepository
	events    *MockEventSaver
	service   *InventoryService
}

func newInventoryFixture() *inventoryFixture {
	f := &inventoryFixture{
		stock:     new(MockInventoryRepository),
		movements: new(MockMovementRepository),
		products:  new(MockProductRepository),
		events:    new(MockEventSaver),
	}
	f.service = NewInventoryService(f.stock, f.movements, f.products, fakeTx{}, f.events, zap.NewNop())
	return f
}

func newStock(t *testing.T, onHand, reserved int) *inventory.Inventory {
	t.Helper()
	inv, err := inventory.NewInventory(uuid.New(), onHand)
	require.NoError(t, err)
	inv.Reserved = reserved
	return inv
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr), "expected DomainError, got %T: %v", err, err)
	assert.Equal(t, code, domainErr.Code)
}

func TestInventoryService_Adjust(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		onHand     int
		reserved   int
		delta      int
		wantOnHand int
		wantCode   string
	}{
		{name: "restock", onHand: 5, delta: 10, wantOnHand: 15},
		{name: "write off", onHand: 5, reserved: 2, delta: -3, wantOnHand: 2},
		{name: "below reserved", onHand: 5, reserved: 4, delta: -2, wantCode: "INSUFFICIENT_STOCK"},
		{name: "negative result", onHand: 1, delta: -2, wantCode: "INVALID_QUANTITY"},
		{name: "zero delta", onHand: 1, delta: 0, wantCode: "INVALID_QUANTITY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newInventoryFixture()
			inv := newStock(t, tt.onHand, tt.reserved)
			pid := inv.ProductID
			f.stock.On("LockByProducts", ctx, []uuid.UUID{pid}).Return(map[uuid.UUID]*inventory.Inventory{pid: inv}, nil)

			if tt.wantCode != "" {
				_, err := f.service.Adjust(ctx, pid, AdjustStockRequest{Delta: tt.delta, Reason: "count"})
				requireCode(t, err, tt.wantCode)
				f.stock.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
				return
			}

			f.stock.On("Save", ctx, inv).Return(nil)
			f.movements.On("Append", ctx, mock.MatchedBy(func(ms []*inventory.Movement) bool {
				return len(ms) == 1 && ms[0].Type == inventory.MovementAdjust && ms[0].Quantity == tt.delta
			})).Return(nil)
			f.events.On("SaveEvents", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
				return len(events) == 1 && events[0].EventType() == inventory.EventTypeStockAdjusted
			})).Return(nil)
			f.stock.On("FindByProduct", ctx, pid).Return(inv, nil)
			f.products.On("FindByID", ctx, pid).Return(nil, shared.ErrNotFound)

			resp, err := f.service.Adjust(ctx, pid, AdjustStockRequest{Delta: tt.delta, Reason: "count"})

			require.NoError(t, err)
			assert.Equal(t, tt.wantOnHand, resp.OnHand)
			assert.Equal(t, tt.wantOnHand-tt.reserved, resp.Available)
			f.movements.AssertExpectations(t)
			f.events.AssertExpectations(t)
		})
	}
}

func TestInventoryService_Reserve(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()

	t.Run("reserves every line", func(t *testing.T) {
		f := newInventoryFixture()
		a := newStock(t, 5, 0)
		b := newStock(t, 2, 0)
		locked := map[uuid.UUID]*inventory.Inventory{a.ProductID: a, b.ProductID: b}
		f.stock.On("LockByProducts", ctx, mock.MatchedBy(func(ids []uuid.UUID) bool {
			return len(ids) == 2 && ids[0].String() < ids[1].String()
		})).Return(locked, nil)
		f.stock.On("Save", ctx, mock.Anything).Return(nil)
		f.movements.On("Append", ctx, mock.Anything).Return(nil)

		err := f.service.Reserve(ctx, orderID, map[uuid.UUID]int{a.ProductID: 3, b.ProductID: 2})

		require.NoError(t, err)
		assert.Equal(t, 3, a.Reserved)
		assert.Equal(t, 2, b.Reserved)
		assert.Equal(t, 0, b.Available())
		f.events.AssertNotCalled(t, "SaveEvents", mock.Anything, mock.Anything)
	})

	t.Run("insufficient stock aborts before saving", func(t *testing.T) {
		f := newInventoryFixture()
		a := newStock(t, 1, 0)
		f.stock.On("LockByProducts", ctx, []uuid.UUID{a.ProductID}).Return(map[uuid.UUID]*inventory.Inventory{a.ProductID: a}, nil)

		err := f.service.Reserve(ctx, orderID, map[uuid.UUID]int{a.ProductID: 2})

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		f.stock.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("missing inventory row", func(t *testing.T) {
		f := newInventoryFixture()
		pid := uuid.New()
		f.stock.On("LockByProducts", ctx, []uuid.UUID{pid}).Return(map[uuid.UUID]*inventory.Inventory{}, nil)

		err := f.service.Reserve(ctx, orderID, map[uuid.UUID]int{pid: 1})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("empty order is a no-op", func(t *testing.T) {
		f := newInventoryFixture()
		require.NoError(t, f.service.Reserve(ctx, orderID, nil))
		f.stock.AssertNotCalled(t, "LockByProducts", mock.Anything, mock.Anything)
	})
}

func TestInventoryService_Consume_EmitsLowStock(t *testing.T) {
	ctx := context.Background()
	f := newInventoryFixture()
	inv := newStock(t, 6, 3)
	pid := inv.ProductID
	f.stock.On("LockByProducts", ctx, []uuid.UUID{pid}).Return(map[uuid.UUID]*inventory.Inventory{pid: inv}, nil)
	f.stock.On("Save", ctx, inv).Return(nil)
	f.movements.On("Append", ctx, mock.Anything).Return(nil)
	f.events.On("SaveEvents", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		return len(events) == 1 && events[0].EventType() == inventory.EventTypeLowStock
	})).Return(nil)

	err := f.service.Consume(ctx, uuid.New(), map[uuid.UUID]int{pid: 3})

	require.NoError(t, err)
	assert.Equal(t, 3, inv.OnHand)
	assert.Equal(t, 0, inv.Reserved)
	assert.Empty(t, inv.GetDomainEvents())
	f.events.AssertExpectations(t)
}

func TestInventoryService_Release(t *testing.T) {
	ctx := context.Background()
	f := newInventoryFixture()
	inv := newStock(t, 4, 2)
	pid := inv.ProductID
	f.stock.On("LockByProducts", ctx, []uuid.UUID{pid}).Return(map[uuid.UUID]*inventory.Inventory{pid: inv}, nil)
	f.stock.On("Save", ctx, inv).Return(nil)
	f.movements.On("Append", ctx, mock.Anything).Return(nil)

	// releasing more than reserved clamps at zero
	require.NoError(t, f.service.Release(ctx, uuid.New(), map[uuid.UUID]int{pid: 5}))
	assert.Equal(t, 0, inv.Reserved)
	assert.Equal(t, 4, inv.Available())
}

func TestInventoryService_List(t *testing.T) {
	ctx := context.Background()
	f := newInventoryFixture()
	low := newStock(t, 2, 0)
	product, err := catalog.NewProduct(catalog.ProductInput{
		SKU:         "CASE-01",
		Name:        "Ốp lưng",
		ListedPrice: decimal.NewFromInt(200000),
		Price:       decimal.NewFromInt(150000),
		Active:      true,
	})
	require.NoError(t, err)
	low.ProductID = product.ID

	f.stock.On("FindAll", ctx, inventory.Filter{LowStock: true, Page: 1, PageSize: 20}).Return([]*inventory.Inventory{low}, int64(1), nil)
	f.products.On("FindByIDs", ctx, []uuid.UUID{product.ID}).Return([]*catalog.Product{product}, nil)

	page, err := f.service.List(ctx, InventoryListFilter{LowStock: true})

	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.True(t, page.Items[0].LowStock)
	assert.Equal(t, "CASE-01", page.Items[0].SKU)
	assert.Equal(t, 1, page.TotalPages)
}

// MockStockAlertNotifier collects alerts
type MockStockAlertNotifier struct {
	mu     sync.Mutex
	alerts []StockAlert
	err    error
}

func (n *MockStockAlertNotifier) SendAlert(_ context.Context, alert StockAlert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, alert)
	return n.err
}

func TestLowStockHandler_Handle(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		onHand    int
		wantType  string
		notifyErr error
	}{
		{name: "low stock", onHand: 3, wantType: "low_stock"},
		{name: "sold out", onHand: 0, wantType: "out_of_stock"},
		{name: "notifier failure is swallowed", onHand: 1, wantType: "low_stock", notifyErr: errors.New("smtp down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &MockStockAlertNotifier{err: tt.notifyErr}
			handler := NewLowStockHandler(zaptest.NewLogger(t)).WithNotifier(notifier)
			inv := newStock(t, tt.onHand, 0)

			err := handler.Handle(ctx, inventory.NewLowStockEvent(inv))

			require.NoError(t, err)
			require.Len(t, notifier.alerts, 1)
			assert.Equal(t, tt.wantType, notifier.alerts[0].AlertType)
			assert.Equal(t, inv.ProductID.String(), notifier.alerts[0].ProductID)
			assert.Equal(t, inventory.DefaultLowStockThreshold, notifier.alerts[0].Threshold)
		})
	}

	t.Run("wrong event type", func(t *testing.T) {
		handler := NewLowStockHandler(zap.NewNop())
		inv := newStock(t, 1, 0)
		err := handler.Handle(ctx, inventory.NewStockAdjustedEvent(inv, 1, ""))
		assert.Error(t, err)
	})

	assert.Equal(t, []string{inventory.EventTypeLowStock}, NewLowStockHandler(zap.NewNop()).EventTypes())
}
