package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/cart"
	"github.com/secureshop/backend/internal/domain/catalog"
	"github.com/secureshop/backend/internal/domain/inventory"
	"github.com/secureshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryCarts is an in-memory cart.Repository
type memoryCarts struct {
	carts map[uuid.UUID]*cart.Cart
	saves int
}

func newMemoryCarts() *memoryCarts {
	return &memoryCarts{carts: map[uuid.UUID]*cart.Cart{}}
}

func (m *memoryCarts) FindByUser(_ context.Context, userID uuid.UUID) (*cart.Cart, error) {
	if c, ok := m.carts[userID]; ok {
		return c, nil
	}
	return cart.New(userID), nil
}

func (m *memoryCarts) Save(_ context.Context, c *cart.Cart) error {
	m.carts[c.UserID] = c
	m.saves++
	return nil
}

// shelf is a fixed set of products with stock. It serves the product and
// inventory lookups the cart makes.
type shelf struct {
	catalog.ProductRepository
	products map[uuid.UUID]*catalog.Product
	stock    map[uuid.UUID]*inventory.Inventory
}

func (s *shelf) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*catalog.Product, error) {
	out := []*catalog.Product{}
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type shelfStock struct {
	inventory.Repository
	shelf *shelf
}

func (s shelfStock) FindByProducts(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*inventory.Inventory, error) {
	out := map[uuid.UUID]*inventory.Inventory{}
	for _, id := range ids {
		if inv, ok := s.shelf.stock[id]; ok {
			out[id] = inv
		}
	}
	return out, nil
}

func (s *shelf) put(t *testing.T, sku string, price int64, onHand int, active bool) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(catalog.ProductInput{
		SKU:         sku,
		Name:        sku,
		ListedPrice: decimal.NewFromInt(price),
		Price:       decimal.NewFromInt(price),
		Active:      active,
	})
	require.NoError(t, err)
	inv, err := inventory.NewInventory(p.ID, onHand)
	require.NoError(t, err)
	s.products[p.ID] = p
	s.stock[p.ID] = inv
	return p
}

type cartFixture struct {
	carts   *memoryCarts
	shelf   *shelf
	service *CartService
}

func newCartFixture() *cartFixture {
	sh := &shelf{products: map[uuid.UUID]*catalog.Product{}, stock: map[uuid.UUID]*inventory.Inventory{}}
	carts := newMemoryCarts()
	return &cartFixture{
		carts:   carts,
		shelf:   sh,
		service: NewCartService(carts, sh, shelfStock{shelf: sh}, zap.NewNop()),
	}
}

func TestCartService_Add(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("increments existing line", func(t *testing.T) {
		f := newCartFixture()
		p := f.shelf.put(t, "CABLE-1", 100000, 5, true)

		_, err := f.service.Add(ctx, userID, AddItemRequest{ProductID: p.ID})
		require.NoError(t, err)
		view, err := f.service.Add(ctx, userID, AddItemRequest{ProductID: p.ID, Quantity: 2})
		require.NoError(t, err)

		require.Len(t, view.Items, 1)
		assert.Equal(t, 3, view.Items[0].Quantity)
		assert.Equal(t, 3, view.Count)
		assert.True(t, view.Subtotal.Amount().Equal(decimal.NewFromInt(300000)))
	})

	t.Run("above available stock", func(t *testing.T) {
		f := newCartFixture()
		p := f.shelf.put(t, "CABLE-2", 100000, 2, true)

		_, err := f.service.Add(ctx, userID, AddItemRequest{ProductID: p.ID, Quantity: 3})

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Zero(t, f.carts.saves)
	})

	t.Run("inactive product", func(t *testing.T) {
		f := newCartFixture()
		p := f.shelf.put(t, "OLD-1", 100000, 2, false)

		_, err := f.service.Add(ctx, userID, AddItemRequest{ProductID: p.ID})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCartService_Update(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	f := newCartFixture()
	p := f.shelf.put(t, "CASE-9", 50000, 4, true)
	_, err := f.service.Add(ctx, userID, AddItemRequest{ProductID: p.ID})
	require.NoError(t, err)

	view, err := f.service.Update(ctx, userID, UpdateItemRequest{ProductID: p.ID, Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, view.Items[0].Quantity)

	_, err = f.service.Update(ctx, userID, UpdateItemRequest{ProductID: p.ID, Quantity: 5})
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)

	view, err = f.service.Update(ctx, userID, UpdateItemRequest{ProductID: p.ID, Quantity: 0})
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestCartService_RemoveClearCount(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	f := newCartFixture()
	a := f.shelf.put(t, "A-1", 10000, 9, true)
	b := f.shelf.put(t, "B-1", 20000, 9, true)
	_, err := f.service.Add(ctx, userID, AddItemRequest{ProductID: a.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = f.service.Add(ctx, userID, AddItemRequest{ProductID: b.ID, Quantity: 3})
	require.NoError(t, err)

	count, err := f.service.Count(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	view, err := f.service.Remove(ctx, userID, a.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, b.ID, view.Items[0].ProductID)

	saves := f.carts.saves
	_, err = f.service.Remove(ctx, userID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, saves, f.carts.saves, "removing a missing line does not write")

	require.NoError(t, f.service.Clear(ctx, userID))
	count, err = f.service.Count(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCartService_Merge(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	f := newCartFixture()
	phone := f.shelf.put(t, "PHONE-1", 10000000, 3, true)
	charger := f.shelf.put(t, "CHG-1", 300000, 10, true)
	retired := f.shelf.put(t, "RETIRED", 10000, 10, false)
	unknown := uuid.New()

	_, err := f.service.Add(ctx, userID, AddItemRequest{ProductID: phone.ID, Quantity: 2})
	require.NoError(t, err)

	resp, err := f.service.Merge(ctx, userID, MergeRequest{Items: []GuestItem{
		{ProductID: phone.ID, Quantity: 2},
		{ProductID: charger.ID, Quantity: 1},
		{ProductID: charger.ID, Quantity: 1},
		{ProductID: retired.ID, Quantity: 1},
		{ProductID: unknown, Quantity: 1},
	}})

	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{retired.ID, unknown}, resp.Skipped)
	assert.Equal(t, []uuid.UUID{phone.ID}, resp.Capped)
	require.Len(t, resp.Cart.Items, 2)
	assert.Equal(t, 3, resp.Cart.Items[0].Quantity, "capped at stock")
	assert.Equal(t, 2, resp.Cart.Items[1].Quantity, "guest lines summed")
}

func TestCartService_View_FlagsDeactivatedProducts(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	f := newCartFixture()
	a := f.shelf.put(t, "A-2", 10000, 5, true)
	b := f.shelf.put(t, "B-2", 20000, 5, true)
	_, err := f.service.Add(ctx, userID, AddItemRequest{ProductID: a.ID})
	require.NoError(t, err)
	_, err = f.service.Add(ctx, userID, AddItemRequest{ProductID: b.ID})
	require.NoError(t, err)

	require.NoError(t, b.Deactivate())

	view, err := f.service.Get(ctx, userID)
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.False(t, view.Items[1].Purchasable)
	assert.True(t, view.Subtotal.Amount().Equal(decimal.NewFromInt(10000)), "inactive lines are not priced")
}
