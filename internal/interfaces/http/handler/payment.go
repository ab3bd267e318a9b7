package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/secureshop/backend/internal/application/payment"
)

// PaymentHandler handles the VNPay redirect flow. The callback and IPN
// endpoints are called by the gateway and carry no user credentials.
type PaymentHandler struct {
	BaseHandler
	paymentService *payment.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *payment.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreatePayment godoc
// @ID           createVNPayPayment
// @Summary      Create a VNPay payment URL
// @Description  The caller must own the order, which must be unpaid and not cancelled
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body payment.CreatePaymentRequest true "Order to pay"
// @Success      200 {object} APIResponse[payment.CreatePaymentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /vnpay/create-payment [post]
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	var req payment.CreatePaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.paymentService.CreatePayment(c.Request.Context(), userID, c.ClientIP(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Callback godoc
// @ID           vnpayPaymentCallback
// @Summary      VNPay return URL
// @Description  Verifies the signature, records the result and echoes the parsed fields
// @Tags         payments
// @Produce      json
// @Success      200 {object} APIResponse[payment.CallbackResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /vnpay/payment-callback [get]
func (h *PaymentHandler) Callback(c *gin.Context) {
	resp, err := h.paymentService.HandleCallback(c.Request.Context(), queryParams(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// IPN godoc
// @ID           vnpayIPN
// @Summary      VNPay instant payment notification
// @Description  Always answers 200 with the RspCode VNPay expects
// @Tags         payments
// @Produce      json
// @Success      200 {object} payment.IPNResponse
// @Router       /vnpay/ipn [get]
// @Router       /vnpay/ipn [post]
func (h *PaymentHandler) IPN(c *gin.Context) {
	params := queryParams(c)
	if c.Request.Method == http.MethodPost {
		if err := c.Request.ParseForm(); err == nil {
			for k, v := range c.Request.PostForm {
				if len(v) > 0 {
					params[k] = v[0]
				}
			}
		}
	}

	c.JSON(http.StatusOK, h.paymentService.HandleIPN(c.Request.Context(), params))
}

// ValidateSignature godoc
// @ID           vnpayValidateSignature
// @Summary      Check a VNPay signature
// @Description  Reports whether a set of returned parameters was signed with the merchant secret
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body map[string]string true "VNPay parameters including vnp_SecureHash"
// @Success      200 {object} APIResponse[payment.ValidateSignatureResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /vnpay/validate-signature [post]
func (h *PaymentHandler) ValidateSignature(c *gin.Context) {
	var params map[string]string
	if !h.bindJSON(c, &params) {
		return
	}

	h.Success(c, payment.ValidateSignatureResponse{Valid: h.paymentService.ValidateSignature(params)})
}

// queryParams flattens the query string, keeping the first value per key
func queryParams(c *gin.Context) map[string]string {
	values := c.Request.URL.Query()
	params := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	return params
}
