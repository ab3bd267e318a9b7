package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/secureshop/backend/internal/application/promotion"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestPromotionHandler_Validate_RejectsBadInput(t *testing.T) {
	gin.SetMode(gin.TestMode)
	// the repository is never reached for malformed queries
	h := NewPromotionHandler(promotion.NewDiscountService(nil, zap.NewNop()))
	r := gin.New()
	r.GET("/promotions/validate", h.Validate)

	tests := []struct {
		name     string
		query    string
		wantCode string
	}{
		{name: "missing code", query: "?subtotal=100000", wantCode: "ERR_VALIDATION"},
		{name: "non numeric subtotal", query: "?code=GIAM10&subtotal=abc", wantCode: "ERR_BAD_REQUEST"},
		{name: "negative subtotal", query: "?code=GIAM10&subtotal=-1", wantCode: "ERR_BAD_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, http.MethodGet, "/promotions/validate"+tt.query, "")

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantCode, decodeResponse(t, w).Error.Code)
		})
	}
}
