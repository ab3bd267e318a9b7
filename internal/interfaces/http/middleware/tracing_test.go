package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/secureshop/backend/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"
)

// setupTestTracer installs a recording tracer provider for the test and
// restores the previous global provider afterwards.
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	previous := otel.GetTracerProvider()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)

	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
		otel.SetTracerProvider(previous)
	})
	return sr
}

// newTracedRouter mirrors the server chain: request id, the otelgin span,
// then the attribute enrichment inside it.
func newTracedRouter() *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(TracingWithConfig(TracingConfig{Enabled: true, ServiceName: "secureshop-test"}))
	router.Use(SpanAttributes())
	return router
}

func onlySpan(t *testing.T, sr *tracetest.SpanRecorder) sdktrace.ReadOnlySpan {
	t.Helper()
	spans := sr.Ended()
	require.Len(t, spans, 1)
	return spans[0]
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracingWithConfig_Disabled(t *testing.T) {
	sr := setupTestTracer(t)

	router := gin.New()
	router.Use(TracingWithConfig(TracingConfig{Enabled: false, ServiceName: "secureshop-test"}))
	router.Use(SpanAttributes())
	router.GET("/api/v1/products", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"items": []string{}})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracingWithConfig_SpanNamedByRoute(t *testing.T) {
	sr := setupTestTracer(t)

	router := newTracedRouter()
	router.GET("/api/v1/products/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/5b0c7c1e", nil)
	req.Header.Set(RequestIDHeader, "checkout-42")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	span := onlySpan(t, sr)
	assert.Equal(t, "GET /api/v1/products/:id", span.Name())
	assert.Equal(t, codes.Unset, span.Status().Code)

	requestID, ok := spanAttr(span, "request_id")
	require.True(t, ok)
	assert.Equal(t, "checkout-42", requestID.AsString())

	_, ok = spanAttr(span, "user_id")
	assert.False(t, ok, "guest requests carry no user")
}

func TestSpanAttributes_AuthenticatedCaller(t *testing.T) {
	jwtService := newTestJWTService()

	tests := []struct {
		name string
		role string
	}{
		{name: "customer", role: RoleUser},
		{name: "admin", role: RoleAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sr := setupTestTracer(t)
			pair, sub := newTestTokenPair(t, jwtService, tt.role)

			router := newTracedRouter()
			router.GET("/api/v1/orders/my-orders", JWTAuthMiddleware(jwtService), func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"items": []string{}})
			})

			rec := serveWithToken(router, "/api/v1/orders/my-orders", "Bearer "+pair.AccessToken)
			require.Equal(t, http.StatusOK, rec.Code)

			span := onlySpan(t, sr)
			userID, ok := spanAttr(span, "user_id")
			require.True(t, ok)
			assert.Equal(t, sub.UserID.String(), userID.AsString())

			role, ok := spanAttr(span, "user_role")
			require.True(t, ok)
			assert.Equal(t, tt.role, role.AsString())
		})
	}
}

func TestSpanAttributes_RejectedTokenHasNoUser(t *testing.T) {
	sr := setupTestTracer(t)
	jwtService := newTestJWTService()

	router := newTracedRouter()
	router.GET("/api/v1/orders/my-orders", JWTAuthMiddleware(jwtService), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := serveWithToken(router, "/api/v1/orders/my-orders", "Bearer not-a-jwt")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	span := onlySpan(t, sr)
	_, ok := spanAttr(span, "user_id")
	assert.False(t, ok)
	assert.Equal(t, codes.Error, span.Status().Code)
	assert.Equal(t, "Unauthorized", span.Status().Description)
}

func TestSpanAttributes_ErrorStatus(t *testing.T) {
	tests := []struct {
		status      int
		wantCode    codes.Code
		wantMessage string
	}{
		{status: http.StatusOK, wantCode: codes.Unset},
		{status: http.StatusCreated, wantCode: codes.Unset},
		{status: http.StatusBadRequest, wantCode: codes.Error, wantMessage: "Client Error"},
		{status: http.StatusUnauthorized, wantCode: codes.Error, wantMessage: "Unauthorized"},
		{status: http.StatusForbidden, wantCode: codes.Error, wantMessage: "Forbidden"},
		{status: http.StatusNotFound, wantCode: codes.Error, wantMessage: "Not Found"},
		{status: http.StatusConflict, wantCode: codes.Error, wantMessage: "Client Error"},
		{status: http.StatusTooManyRequests, wantCode: codes.Error, wantMessage: "Rate Limited"},
		// otelgin sets its own status on 5xx after the handlers return
		{status: http.StatusInternalServerError, wantCode: codes.Error},
		{status: http.StatusBadGateway, wantCode: codes.Error},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			sr := setupTestTracer(t)

			router := newTracedRouter()
			router.POST("/api/v1/checkout/orders", func(c *gin.Context) {
				c.Status(tt.status)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/checkout/orders", nil))
			require.Equal(t, tt.status, w.Code)

			span := onlySpan(t, sr)
			assert.Equal(t, tt.wantCode, span.Status().Code)
			if tt.wantCode != codes.Error {
				return
			}
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, span.Status().Description)
			}
			statusCode, ok := spanAttr(span, "http.status_code")
			require.True(t, ok)
			assert.Equal(t, int64(tt.status), statusCode.AsInt64())
		})
	}
}

func TestSpanAttributes_WithoutRecordingSpan(t *testing.T) {
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(noop.NewTracerProvider())
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	router := newTracedRouter()
	router.GET("/api/v1/products", func(c *gin.Context) {
		c.Set(JWTUserIDKey, "user-1")
		c.Status(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name      string
		contextID string
		headerID  string
		want      string
	}{
		{name: "context wins over header", contextID: "ctx-id", headerID: "header-id", want: "ctx-id"},
		{name: "header fallback", headerID: "header-id", want: "header-id"},
		{name: "oversized header truncated", headerID: strings.Repeat("a", MaxRequestIDLength+50), want: strings.Repeat("a", MaxRequestIDLength)},
		{name: "nothing set", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.headerID != "" {
				c.Request.Header.Set(RequestIDHeader, tt.headerID)
			}
			if tt.contextID != "" {
				c.Set(logger.GinRequestIDKey, tt.contextID)
			}

			assert.Equal(t, tt.want, getRequestID(c))
		})
	}
}
