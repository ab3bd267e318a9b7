package support

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/order"
	"github.com/secureshop/backend/internal/domain/shared"
	"github.com/secureshop/backend/internal/domain/shared/valueobject"
	"github.com/secureshop/backend/internal/domain/support"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockTicketRepository is a mock implementation of support.TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, t *support.Ticket) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTicketRepository) Update(ctx context.Context, t *support.Ticket) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTicketRepository) FindByID(ctx context.Context, id uuid.UUID) (*support.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*support.Ticket), args.Error(1)
}

func (m *MockTicketRepository) FindAll(ctx context.Context, filter support.TicketFilter) ([]*support.Ticket, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*support.Ticket), args.Get(1).(int64), args.Error(2)
}

// MockWarrantyRepository is a mock implementation of support.WarrantyRepository
type MockWarrantyRepository struct {
	mock.Mock
}

func (m *MockWarrantyRepository) Create(ctx context.Context, w *support.WarrantyRequest) error {
	return m.Called(ctx, w).Error(0)
}

func (m *MockWarrantyRepository) Update(ctx context.Context, w *support.WarrantyRequest) error {
	return m.Called(ctx, w).Error(0)
}

func (m *MockWarrantyRepository) FindByID(ctx context.Context, id uuid.UUID) (*support.WarrantyRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*support.WarrantyRequest), args.Error(1)
}

func (m *MockWarrantyRepository) FindAll(ctx context.Context, filter support.WarrantyFilter) ([]*support.WarrantyRequest, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*support.WarrantyRequest), args.Get(1).(int64), args.Error(2)
}

func (m *MockWarrantyRepository) ExistsOpen(ctx context.Context, orderID, productID uuid.UUID) (bool, error) {
	args := m.Called(ctx, orderID, productID)
	return args.Bool(0), args.Error(1)
}

// orderLookup serves FindByID from a fixed set of orders
type orderLookup struct {
	order.Repository
	orders map[uuid.UUID]*order.Order
}

func (l orderLookup) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	if o, ok := l.orders[id]; ok {
		return o, nil
	}
	return nil, shared.ErrNotFound
}

func TestTicketService(t *testing.T) {
	ctx := context.Background()
	userID, adminID := uuid.New(), uuid.New()

	t.Run("create", func(t *testing.T) {
		repo := new(MockTicketRepository)
		s := NewTicketService(repo, zap.NewNop())
		repo.On("Create", ctx, mock.AnythingOfType("*support.Ticket")).Return(nil)

		resp, err := s.Create(ctx, userID, CreateTicketRequest{Title: " Giao hàng chậm ", Content: "Đơn của tôi chưa tới"})

		require.NoError(t, err)
		assert.Equal(t, "Giao hàng chậm", resp.Title)
		assert.Equal(t, "OPEN", resp.Status)
	})

	t.Run("mine scopes to user", func(t *testing.T) {
		repo := new(MockTicketRepository)
		s := NewTicketService(repo, zap.NewNop())
		repo.On("FindAll", ctx, support.TicketFilter{UserID: &userID, Page: 1, PageSize: 20}).
			Return([]*support.Ticket{}, int64(0), nil)

		_, err := s.Mine(ctx, userID, 0, 0)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("reply moves to in progress", func(t *testing.T) {
		repo := new(MockTicketRepository)
		s := NewTicketService(repo, zap.NewNop())
		ticket, err := support.NewTicket(userID, "Hỏi", "", "Còn hàng không?")
		require.NoError(t, err)
		repo.On("FindByID", ctx, ticket.ID).Return(ticket, nil)
		repo.On("Update", ctx, ticket).Return(nil)

		resp, err := s.Reply(ctx, adminID, ticket.ID, ReplyTicketRequest{Reply: "Còn bạn nhé"})

		require.NoError(t, err)
		assert.Equal(t, "IN_PROGRESS", resp.Status)
		assert.Equal(t, "Còn bạn nhé", resp.AdminReply)
		assert.NotNil(t, resp.RepliedAt)
	})

	t.Run("closed is terminal", func(t *testing.T) {
		repo := new(MockTicketRepository)
		s := NewTicketService(repo, zap.NewNop())
		ticket, err := support.NewTicket(userID, "Hỏi", "", "...")
		require.NoError(t, err)
		require.NoError(t, ticket.SetStatus(support.TicketClosed))
		repo.On("FindByID", ctx, ticket.ID).Return(ticket, nil)

		_, err = s.SetStatus(ctx, ticket.ID, TicketStatusRequest{Status: "OPEN"})

		assert.ErrorIs(t, err, shared.ErrInvalidState)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("other users cannot read a ticket", func(t *testing.T) {
		repo := new(MockTicketRepository)
		s := NewTicketService(repo, zap.NewNop())
		ticket, err := support.NewTicket(userID, "Hỏi", "", "...")
		require.NoError(t, err)
		repo.On("FindByID", ctx, ticket.ID).Return(ticket, nil)

		_, err = s.Get(ctx, uuid.New(), false, ticket.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = s.Get(ctx, adminID, true, ticket.ID)
		assert.NoError(t, err)
	})
}

func deliveredOrder(t *testing.T, userID, productID uuid.UUID) *order.Order {
	t.Helper()
	quote, err := order.Price([]order.Line{
		{ProductID: productID, SKU: "TV-55", Name: "TV", UnitPrice: valueobject.VNDFromInt(9000000), Quantity: 1},
	}, valueobject.ZeroVND(), valueobject.ZeroVND(), "")
	require.NoError(t, err)
	o, err := order.Place(userID, quote, order.ShippingInfo{
		FullName: "Vo E", Phone: "0911111111", Email: "e@example.com",
		Address: "3 Ly Tu Trong", Ward: "Ben Nghe", District: "Quan 1",
	}, order.ShippingStandard, order.PaymentCOD)
	require.NoError(t, err)
	require.NoError(t, o.Confirm())
	require.NoError(t, o.Ship())
	require.NoError(t, o.Deliver())
	return o
}

func TestWarrantyService_Submit(t *testing.T) {
	ctx := context.Background()
	userID, productID := uuid.New(), uuid.New()
	delivered := deliveredOrder(t, userID, productID)

	tests := []struct {
		name      string
		userID    uuid.UUID
		orderID   uuid.UUID
		productID uuid.UUID
		open      bool
		wantErr   error
	}{
		{name: "eligible", userID: userID, orderID: delivered.ID, productID: productID},
		{name: "someone else's order", userID: uuid.New(), orderID: delivered.ID, productID: productID, wantErr: ErrWarrantyNotEligible},
		{name: "product not in order", userID: userID, orderID: delivered.ID, productID: uuid.New(), wantErr: ErrWarrantyNotEligible},
		{name: "unknown order", userID: userID, orderID: uuid.New(), productID: productID, wantErr: ErrWarrantyNotEligible},
		{name: "already open", userID: userID, orderID: delivered.ID, productID: productID, open: true, wantErr: ErrWarrantyOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockWarrantyRepository)
			s := NewWarrantyService(repo, orderLookup{orders: map[uuid.UUID]*order.Order{delivered.ID: delivered}}, zap.NewNop())
			repo.On("ExistsOpen", ctx, tt.orderID, tt.productID).Return(tt.open, nil)
			repo.On("Create", ctx, mock.AnythingOfType("*support.WarrantyRequest")).Return(nil)

			resp, err := s.Submit(ctx, tt.userID, WarrantyRequestBody{
				OrderID: tt.orderID, ProductID: tt.productID, IssueType: "DEFECT", Description: "Màn hình sọc",
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "SUBMITTED", resp.Status)
		})
	}

	t.Run("pending order is not eligible", func(t *testing.T) {
		quote, err := order.Price([]order.Line{
			{ProductID: productID, SKU: "TV-55", Name: "TV", UnitPrice: valueobject.VNDFromInt(1), Quantity: 1},
		}, valueobject.ZeroVND(), valueobject.ZeroVND(), "")
		require.NoError(t, err)
		pending, err := order.Place(userID, quote, delivered.Shipping, order.ShippingStandard, order.PaymentCOD)
		require.NoError(t, err)
		s := NewWarrantyService(new(MockWarrantyRepository), orderLookup{orders: map[uuid.UUID]*order.Order{pending.ID: pending}}, zap.NewNop())

		_, err = s.Submit(ctx, userID, WarrantyRequestBody{OrderID: pending.ID, ProductID: productID, IssueType: "DEFECT", Description: "x"})
		assert.ErrorIs(t, err, ErrWarrantyNotEligible)
	})
}

func TestWarrantyService_Decisions(t *testing.T) {
	ctx := context.Background()
	repo := new(MockWarrantyRepository)
	s := NewWarrantyService(repo, orderLookup{}, zap.NewNop())
	w, err := support.NewWarrantyRequest(uuid.New(), uuid.New(), uuid.New(), support.IssueDamaged, "Vỡ hộp")
	require.NoError(t, err)
	repo.On("FindByID", ctx, w.ID).Return(w, nil)
	repo.On("Update", ctx, w).Return(nil)

	_, err = s.Resolve(ctx, w.ID, WarrantyDecisionRequest{})
	assert.ErrorIs(t, err, shared.ErrInvalidState, "only approved requests resolve")

	resp, err := s.Approve(ctx, w.ID, WarrantyDecisionRequest{Note: "Đổi mới"})
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", resp.Status)
	assert.Equal(t, "Đổi mới", resp.AdminNote)

	_, err = s.Reject(ctx, w.ID, WarrantyDecisionRequest{})
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	resp, err = s.Resolve(ctx, w.ID, WarrantyDecisionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "RESOLVED", resp.Status)
	assert.NotNil(t, resp.ResolvedAt)
}
