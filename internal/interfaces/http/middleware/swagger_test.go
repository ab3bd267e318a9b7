package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newSwaggerRouter(cfg SwaggerConfig, jwtMiddleware gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.GET("/swagger/*any", SwaggerProtection(cfg, jwtMiddleware), func(c *gin.Context) {
		c.String(http.StatusOK, "swagger")
	})
	return router
}

func serveSwagger(router *gin.Engine, remoteAddr, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = remoteAddr
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// The production wiring: the docs sit behind the office network and a
// bearer token from the regular JWT guard.
func TestSwaggerProtection_ProductionConfig(t *testing.T) {
	jwtService := newTestJWTService()
	customer, _ := newTestTokenPair(t, jwtService, RoleUser)

	router := newSwaggerRouter(SwaggerConfig{
		Enabled:     true,
		RequireAuth: true,
		AllowedIPs:  []string{"10.20.0.0/16", "203.0.113.7"},
	}, JWTAuthMiddleware(jwtService))

	tests := []struct {
		name          string
		remoteAddr    string
		authorization string
		wantCode      int
		wantBody      string
	}{
		{
			name:          "outside network is refused before the token is read",
			remoteAddr:    "198.51.100.9:40000",
			authorization: "Bearer " + customer.AccessToken,
			wantCode:      http.StatusForbidden,
			wantBody:      "ERR_FORBIDDEN",
		},
		{
			name:       "office network without token",
			remoteAddr: "10.20.4.11:40000",
			wantCode:   http.StatusUnauthorized,
		},
		{
			name:          "office network with forged token",
			remoteAddr:    "10.20.4.11:40000",
			authorization: "Bearer forged.token.value",
			wantCode:      http.StatusUnauthorized,
		},
		{
			name:          "office network with token",
			remoteAddr:    "10.20.4.11:40000",
			authorization: "Bearer " + customer.AccessToken,
			wantCode:      http.StatusOK,
			wantBody:      "swagger",
		},
		{
			name:          "single listed address with token",
			remoteAddr:    "203.0.113.7:51515",
			authorization: "Bearer " + customer.AccessToken,
			wantCode:      http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveSwagger(router, tt.remoteAddr, tt.authorization)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestSwaggerProtection_Disabled(t *testing.T) {
	router := newSwaggerRouter(SwaggerConfig{Enabled: false, AllowedIPs: []string{"0.0.0.0/0"}}, nil)

	w := serveSwagger(router, "127.0.0.1:12345", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_NOT_FOUND")
}

func TestSwaggerProtection_DevelopmentConfig(t *testing.T) {
	router := newSwaggerRouter(SwaggerConfig{Enabled: true}, func(c *gin.Context) {
		c.AbortWithStatus(http.StatusUnauthorized)
	})

	w := serveSwagger(router, "192.168.1.50:12345", "")

	assert.Equal(t, http.StatusOK, w.Code, "no allow list and no auth leaves the docs open")
}

func TestIsIPAllowed(t *testing.T) {
	allowed := parseAllowedPrefixes([]string{"192.168.1.1", "10.0.0.0/8", " ::1 ", "not-an-ip", "300.1.1.1/8"})

	tests := []struct {
		ip   string
		want bool
	}{
		{ip: "192.168.1.1", want: true},
		{ip: "192.168.1.2", want: false},
		{ip: "10.250.3.4", want: true},
		{ip: "11.0.0.5", want: false},
		{ip: "::1", want: true},
		{ip: "::ffff:10.1.2.3", want: true},
	}

	assert.Len(t, allowed, 3)
	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			assert.Equal(t, tt.want, isIPAllowed(netip.MustParseAddr(tt.ip), allowed))
		})
	}

	t.Run("invalid address", func(t *testing.T) {
		assert.False(t, isIPAllowed(netip.Addr{}, allowed))
	})
}
