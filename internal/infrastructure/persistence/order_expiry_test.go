package persistence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	orderapp "github.com/secureshop/backend/internal/application/order"
	"github.com/secureshop/backend/internal/domain/order"
	"github.com/secureshop/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type releaseRecorder struct {
	mu       sync.Mutex
	released []uuid.UUID
}

func (r *releaseRecorder) Reserve(context.Context, uuid.UUID, map[uuid.UUID]int) error { return nil }
func (r *releaseRecorder) Consume(context.Context, uuid.UUID, map[uuid.UUID]int) error { return nil }

func (r *releaseRecorder) Release(_ context.Context, orderID uuid.UUID, _ map[uuid.UUID]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.released = append(r.released, orderID)
	return nil
}

type discardOutbox struct{}

func (discardOutbox) SaveEvents(context.Context, ...shared.DomainEvent) error { return nil }

func TestGormOrderRepository_FindAll_PaymentFilters(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)
	buyer := seedUser(t, db, "wallet@example.com")
	product := seedProduct(t, db, "EXP-1", "Headphones", 900000, 10)

	older := seedOrderAt(t, db, buyer.ID, order.PaymentEWallet, time.Now().Add(-3*time.Hour), product)
	newer := seedOrderAt(t, db, buyer.ID, order.PaymentEWallet, time.Now().Add(-2*time.Hour), product)
	seedOrderAt(t, db, buyer.ID, order.PaymentCOD, time.Now().Add(-4*time.Hour), product)

	failed, err := repo.FindByID(ctx, newer.ID)
	require.NoError(t, err)
	failed.MarkPaymentFailed()
	require.NoError(t, repo.Update(ctx, failed))

	wallet := order.PaymentEWallet
	list, total, err := repo.FindAll(ctx, order.Filter{
		PaymentMethod:   &wallet,
		PaymentStatuses: []order.PaymentStatus{order.PaymentUnpaid, order.PaymentFailed},
		OldestFirst:     true,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, older.ID, list[0].ID)
	assert.Equal(t, newer.ID, list[1].ID)
	assert.Equal(t, order.PaymentFailed, list[1].PaymentStatus)

	list, _, err = repo.FindAll(ctx, order.Filter{
		PaymentMethod:   &wallet,
		PaymentStatuses: []order.PaymentStatus{order.PaymentUnpaid},
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, older.ID, list[0].ID)
}

func TestOrderService_ExpireUnpaid_OnSQLite(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)
	stock := &releaseRecorder{}
	service := orderapp.NewOrderService(repo, stock, NewTxManager(db), discardOutbox{}, nil, nil, zap.NewNop())

	buyer := seedUser(t, db, "late@example.com")
	product := seedProduct(t, db, "EXP-2", "Speaker", 1500000, 500)

	unpaid := seedOrderAt(t, db, buyer.ID, order.PaymentEWallet, time.Now().Add(-5*time.Hour), product)
	failed := seedOrderAt(t, db, buyer.ID, order.PaymentEWallet, time.Now().Add(-5*time.Hour), product)
	o, err := repo.FindByID(ctx, failed.ID)
	require.NoError(t, err)
	o.MarkPaymentFailed()
	require.NoError(t, repo.Update(ctx, o))
	fresh := seedOrderAt(t, db, buyer.ID, order.PaymentEWallet, time.Now().Add(-10*time.Minute), product)

	// more stale cash on delivery orders than one page holds, all newer
	// than the wallet orders
	for i := 0; i < 120; i++ {
		seedOrderAt(t, db, buyer.ID, order.PaymentCOD, time.Now().Add(-2*time.Hour), product)
	}

	n, err := service.ExpireUnpaid(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []uuid.UUID{unpaid.ID, failed.ID}, stock.released)

	for _, tc := range []struct {
		id   uuid.UUID
		want order.Status
	}{
		{unpaid.ID, order.StatusCancelled},
		{failed.ID, order.StatusCancelled},
		{fresh.ID, order.StatusPending},
	} {
		got, err := repo.FindByID(ctx, tc.id)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got.Status)
	}

	cod := order.PaymentCOD
	pending := order.StatusPending
	_, stillPending, err := repo.FindAll(ctx, order.Filter{PaymentMethod: &cod, Status: &pending})
	require.NoError(t, err)
	assert.EqualValues(t, 120, stillPending, "cash on delivery orders wait for an admin")
}
