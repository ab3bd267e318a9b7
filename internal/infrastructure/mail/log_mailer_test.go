package mail

import (
	"context"
	"testing"

	orderapp "github.com/secureshop/backend/internal/application/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogMailer_SendVerification(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := NewLogMailer("no-reply@shop.test", zap.New(core))

	var got Message
	m.OnSend(func(msg Message) { got = msg })

	err := m.SendVerification(context.Background(), "an@example.com", "An", "http://shop.test/verify?token=abc")
	require.NoError(t, err)

	assert.Equal(t, "no-reply@shop.test", got.From)
	assert.Equal(t, "an@example.com", got.To)
	assert.Contains(t, got.Body, "Xin chào An")
	assert.Contains(t, got.Body, "http://shop.test/verify?token=abc")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "mail sent", entry.Message)
	assert.Equal(t, "an@example.com", entry.ContextMap()["to"])
}

func TestLogMailer_SendOrderConfirmation(t *testing.T) {
	m := NewLogMailer("no-reply@shop.test", zap.NewNop())
	var got Message
	m.OnSend(func(msg Message) { got = msg })

	err := m.SendOrderConfirmation(context.Background(), orderapp.ConfirmationMail{
		To:         "binh@example.com",
		Name:       "Binh",
		OrderRef:   "1a2b3c4d",
		ItemCount:  2,
		GrandTotal: "1530000 VND",
		Link:       "http://shop.test/confirm-order?token=xyz",
	})
	require.NoError(t, err)

	assert.Equal(t, "binh@example.com", got.To)
	assert.Equal(t, "Xác nhận đơn hàng #1a2b3c4d", got.Subject)
	assert.Contains(t, got.Body, "Mã đơn hàng: #1a2b3c4d")
	assert.Contains(t, got.Body, "Số sản phẩm: 2")
	assert.Contains(t, got.Body, "1530000 VND")
	assert.Contains(t, got.Body, "http://shop.test/confirm-order?token=xyz")
}

func TestNewLogMailer_NilLogger(t *testing.T) {
	m := NewLogMailer("from@test", nil)
	assert.NoError(t, m.SendVerification(context.Background(), "a@b.co", "A", "link"))
}
