package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/shared"
)

// ErrInvalidSignature is returned for gateway messages whose hash does not match
var ErrInvalidSignature = shared.NewDomainError("INVALID_SIGNATURE", "Invalid payment signature")

// Gateway is a redirect-style online payment provider
type Gateway interface {
	// NewTxnRef returns a fresh merchant reference for an order
	NewTxnRef(orderID uuid.UUID) string
	// PaymentURL builds the signed URL the customer is redirected to
	PaymentURL(req GatewayRequest) (string, error)
	// VerifySignature checks the hash carried by params
	VerifySignature(params map[string]string) bool
	// ParseResult verifies params and decodes the payment outcome
	ParseResult(params map[string]string) (*GatewayResult, error)
}

// GatewayRequest describes one payment attempt
type GatewayRequest struct {
	TxnRef    string
	OrderID   uuid.UUID
	Amount    int64 // minor units, amount x 100
	OrderInfo string
	BankCode  string
	Locale    string
	ClientIP  string
	CreatedAt time.Time
}

// GatewayResult is the decoded return or IPN message
type GatewayResult struct {
	TxnRef            string            `json:"vnp_TxnRef"`
	OrderID           uuid.UUID         `json:"orderId"`
	Amount            int64             `json:"vnp_Amount"`
	ResponseCode      string            `json:"vnp_ResponseCode"`
	TransactionStatus string            `json:"vnp_TransactionStatus"`
	TransactionNo     string            `json:"vnp_TransactionNo"`
	BankCode          string            `json:"vnp_BankCode"`
	BankTranNo        string            `json:"vnp_BankTranNo"`
	CardType          string            `json:"vnp_CardType"`
	OrderInfo         string            `json:"vnp_OrderInfo"`
	PayDate           string            `json:"vnp_PayDate"`
	PaidAt            time.Time         `json:"-"`
	Raw               map[string]string `json:"-"`
}

// Success reports an approved payment
func (r *GatewayResult) Success() bool {
	return r.ResponseCode == "00" && (r.TransactionStatus == "" || r.TransactionStatus == "00")
}
