package payment

import (
	"github.com/google/uuid"
)

// CreatePaymentRequest starts a VNPay payment for an order
type CreatePaymentRequest struct {
	OrderID   uuid.UUID `json:"orderId" binding:"required"`
	BankCode  string    `json:"bankCode" binding:"max=20"`
	Language  string    `json:"language" binding:"omitempty,oneof=vn en"`
	OrderInfo string    `json:"orderInfo" binding:"max=255"`
}

// CreatePaymentResponse carries the redirect URL
type CreatePaymentResponse struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	PaymentURL string `json:"paymentUrl"`
}

// CallbackResponse echoes the parsed return parameters
type CallbackResponse struct {
	Success           bool      `json:"success"`
	OrderID           uuid.UUID `json:"orderId"`
	TxnRef            string    `json:"txnRef"`
	Amount            int64     `json:"amount"`
	ResponseCode      string    `json:"responseCode"`
	TransactionStatus string    `json:"transactionStatus"`
	TransactionNo     string    `json:"transactionNo"`
	BankCode          string    `json:"bankCode"`
	CardType          string    `json:"cardType"`
	PayDate           string    `json:"payDate"`
	OrderInfo         string    `json:"orderInfo"`
}

// IPNResponse is the body VNPay expects from the IPN endpoint
type IPNResponse struct {
	RspCode string `json:"RspCode"`
	Message string `json:"Message"`
}

// ValidateSignatureResponse reports whether a parameter set is authentic
type ValidateSignatureResponse struct {
	Valid bool `json:"valid"`
}

func toCallbackResponse(r *GatewayResult) *CallbackResponse {
	return &CallbackResponse{
		Success:           r.Success(),
		OrderID:           r.OrderID,
		TxnRef:            r.TxnRef,
		Amount:            r.Amount,
		ResponseCode:      r.ResponseCode,
		TransactionStatus: r.TransactionStatus,
		TransactionNo:     r.TransactionNo,
		BankCode:          r.BankCode,
		CardType:          r.CardType,
		PayDate:           r.PayDate,
		OrderInfo:         r.OrderInfo,
	}
}
