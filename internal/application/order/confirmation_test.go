package order

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/order"
	"github.com/secureshop/backend/internal/domain/shared"
	"github.com/secureshop/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingMailer struct {
	sent []ConfirmationMail
	err  error
}

func (m *recordingMailer) SendOrderConfirmation(_ context.Context, mail ConfirmationMail) error {
	m.sent = append(m.sent, mail)
	return m.err
}

func (m *recordingMailer) lastToken(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, m.sent)
	link, err := url.Parse(m.sent[len(m.sent)-1].Link)
	require.NoError(t, err)
	return link.Query().Get("token")
}

type confirmationFixture struct {
	*orderFixture
	mailer       *recordingMailer
	confirmation *ConfirmationService
}

func newConfirmationFixture() *confirmationFixture {
	f := &confirmationFixture{orderFixture: newOrderFixture(nil), mailer: &recordingMailer{}}
	f.confirmation = NewConfirmationService(f.orders, f.service, auth.NewInMemoryVerificationTokens(), f.mailer,
		ConfirmationConfig{BaseURL: "http://shop.test/confirm-order"}, zap.NewNop())
	return f
}

func placedEvent(o *order.Order) shared.DomainEvent {
	return order.NewOrderPlacedEvent(o)
}

func TestConfirmationService_MailThenConfirm(t *testing.T) {
	ctx := context.Background()
	f := newConfirmationFixture()
	o := placeOrder(t, uuid.New(), order.PaymentCOD)

	f.orders.On("FindByID", ctx, o.ID).Return(o, nil)
	require.NoError(t, f.confirmation.Handle(ctx, placedEvent(o)))

	require.Len(t, f.mailer.sent, 1)
	mail := f.mailer.sent[0]
	assert.Equal(t, "a@example.com", mail.To)
	assert.Equal(t, "Nguyen Van A", mail.Name)
	assert.Equal(t, o.ID.String()[:8], mail.OrderRef)
	assert.Equal(t, 2, mail.ItemCount)
	assert.Contains(t, mail.Link, "http://shop.test/confirm-order?token=")
	token := f.mailer.lastToken(t)

	f.orders.On("FindByIDForUpdate", ctx, o.ID).Return(o, nil)
	f.stock.On("Consume", ctx, o.ID, o.Quantities()).Return(nil)
	f.orders.On("Update", ctx, o).Return(nil)
	f.events.On("SaveEvents", ctx, mock.Anything).Return(nil)

	result, err := f.confirmation.Confirm(ctx, token)
	require.NoError(t, err)
	assert.False(t, result.AlreadyProcessed)
	assert.Equal(t, string(order.StatusWaitingForDelivery), result.Order.Status)
	f.stock.AssertExpectations(t)

	t.Run("the link works once", func(t *testing.T) {
		_, err := f.confirmation.Confirm(ctx, token)
		assert.True(t, errors.Is(err, ErrConfirmationInvalid))
	})
}

func TestConfirmationService_Confirm_AlreadyProcessed(t *testing.T) {
	ctx := context.Background()
	f := newConfirmationFixture()
	o := placeOrder(t, uuid.New(), order.PaymentEWallet)
	f.orders.On("FindByID", ctx, o.ID).Return(o, nil)
	require.NoError(t, f.confirmation.Handle(ctx, placedEvent(o)))
	token := f.mailer.lastToken(t)

	// an admin confirmed the order before the customer clicked
	require.NoError(t, o.Confirm())

	result, err := f.confirmation.Confirm(ctx, token)
	require.NoError(t, err)
	assert.True(t, result.AlreadyProcessed)
	assert.Equal(t, string(order.StatusWaitingForDelivery), result.Order.Status)
	f.orders.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)
	f.stock.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmationService_Confirm_InvalidLinks(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown token", func(t *testing.T) {
		f := newConfirmationFixture()
		_, err := f.confirmation.Confirm(ctx, "not-a-token")
		assert.True(t, errors.Is(err, ErrConfirmationInvalid))
	})

	t.Run("order deleted since", func(t *testing.T) {
		f := newConfirmationFixture()
		o := placeOrder(t, uuid.New(), order.PaymentCOD)
		f.orders.On("FindByID", ctx, o.ID).Return(o, nil).Once()
		require.NoError(t, f.confirmation.Handle(ctx, placedEvent(o)))
		f.orders.On("FindByID", ctx, o.ID).Return(nil, shared.ErrNotFound).Once()

		_, err := f.confirmation.Confirm(ctx, f.mailer.lastToken(t))
		assert.True(t, errors.Is(err, ErrConfirmationInvalid))
	})
}

func TestConfirmationService_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("no email skips the mail", func(t *testing.T) {
		f := newConfirmationFixture()
		o := placeOrder(t, uuid.New(), order.PaymentCOD)
		o.Shipping.Email = ""
		f.orders.On("FindByID", ctx, o.ID).Return(o, nil)

		require.NoError(t, f.confirmation.Handle(ctx, placedEvent(o)))
		assert.Empty(t, f.mailer.sent)
	})

	t.Run("cancelled before delivery skips the mail", func(t *testing.T) {
		f := newConfirmationFixture()
		o := placeOrder(t, uuid.New(), order.PaymentCOD)
		require.NoError(t, o.Cancel("changed my mind"))
		f.orders.On("FindByID", ctx, o.ID).Return(o, nil)

		require.NoError(t, f.confirmation.Handle(ctx, placedEvent(o)))
		assert.Empty(t, f.mailer.sent)
	})

	t.Run("mail failure does not fail the event", func(t *testing.T) {
		f := newConfirmationFixture()
		f.mailer.err = errors.New("smtp down")
		o := placeOrder(t, uuid.New(), order.PaymentCOD)
		f.orders.On("FindByID", ctx, o.ID).Return(o, nil)

		assert.NoError(t, f.confirmation.Handle(ctx, placedEvent(o)))
		assert.Len(t, f.mailer.sent, 1)
	})

	t.Run("other events are rejected", func(t *testing.T) {
		f := newConfirmationFixture()
		shipped := shared.NewBaseDomainEvent(order.EventTypeOrderShipped, order.AggregateTypeOrder, uuid.New())
		assert.Error(t, f.confirmation.Handle(ctx, &shipped))
	})

	t.Run("missing order surfaces for retry", func(t *testing.T) {
		f := newConfirmationFixture()
		o := placeOrder(t, uuid.New(), order.PaymentCOD)
		f.orders.On("FindByID", ctx, o.ID).Return(nil, shared.ErrNotFound)

		assert.Error(t, f.confirmation.Handle(ctx, placedEvent(o)))
	})
}
