package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/catalog"
	"github.com/secureshop/backend/internal/domain/identity"
	"github.com/secureshop/backend/internal/domain/inventory"
	"github.com/secureshop/backend/internal/domain/order"
	"github.com/secureshop/backend/internal/domain/shared/valueobject"
	"github.com/secureshop/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB opens a private in-memory sqlite database with every table
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDatabase(&config.DatabaseConfig{
		Driver: "sqlite",
		Path:   "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })
	return db.DB
}

func seedUser(t *testing.T, db *gorm.DB, email string) *identity.User {
	t.Helper()
	u, err := identity.NewUser("Test User", email, "Secret123")
	require.NoError(t, err)
	require.NoError(t, NewGormUserRepository(db).Create(context.Background(), u))
	return u
}

func seedProduct(t *testing.T, db *gorm.DB, sku, name string, price int64, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(catalog.ProductInput{
		SKU:         sku,
		Name:        name,
		ListedPrice: decimal.NewFromInt(price),
		Price:       decimal.NewFromInt(price),
		Active:      true,
	})
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, NewGormProductRepository(db).Create(ctx, p))
	inv, err := inventory.NewInventory(p.ID, stock)
	require.NoError(t, err)
	require.NoError(t, NewGormInventoryRepository(db).Create(ctx, inv))
	return p
}

func seedOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, products ...*catalog.Product) *order.Order {
	t.Helper()
	return seedOrderAt(t, db, userID, order.PaymentCOD, time.Time{}, products...)
}

// seedOrderAt places an order paid by method, created at createdAt when it
// is not zero
func seedOrderAt(t *testing.T, db *gorm.DB, userID uuid.UUID, method order.PaymentMethod, createdAt time.Time, products ...*catalog.Product) *order.Order {
	t.Helper()
	lines := make([]order.Line, 0, len(products))
	for _, p := range products {
		lines = append(lines, order.Line{
			ProductID: p.ID,
			SKU:       p.SKU,
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  1,
		})
	}
	quote, err := order.Price(lines, valueobject.ZeroVND(), valueobject.VNDFromInt(30000), "")
	require.NoError(t, err)
	o, err := order.Place(userID, quote, order.ShippingInfo{
		FullName: "Nguyen Van A",
		Phone:    "0901234567",
		Email:    "buyer@example.com",
		Address:  "1 Le Loi",
		Ward:     "Ben Nghe",
		District: "District 1",
		City:     "Ho Chi Minh",
	}, order.ShippingStandard, method)
	require.NoError(t, err)
	if !createdAt.IsZero() {
		o.CreatedAt = createdAt
	}
	require.NoError(t, NewGormOrderRepository(db).Create(context.Background(), o))
	return o
}

func utcDay(offset int) time.Time {
	return time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, offset)
}
