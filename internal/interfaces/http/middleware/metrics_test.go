package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

type httpObservation struct {
	method, route, status string
}

type fakeHTTPRecorder struct {
	mu       sync.Mutex
	seen     []httpObservation
	inFlight prometheus.Gauge
}

func newFakeHTTPRecorder() *fakeHTTPRecorder {
	return &fakeHTTPRecorder{inFlight: prometheus.NewGauge(prometheus.GaugeOpts{Name: "in_flight"})}
}

func (f *fakeHTTPRecorder) ObserveHTTP(method, route, status string, _ float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, httpObservation{method, route, status})
}

func (f *fakeHTTPRecorder) InFlight() prometheus.Gauge { return f.inFlight }

func TestHTTPMetrics(t *testing.T) {
	rec := newFakeHTTPRecorder()
	router := gin.New()
	router.Use(HTTPMetrics(DefaultHTTPMetricsConfig(rec)))
	router.GET("/api/v1/products/:id", func(c *gin.Context) {
		assert.Equal(t, 1.0, testutil.ToFloat64(rec.inFlight))
		c.Status(http.StatusOK)
	})
	router.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/v1/products/abc", "/api/v1/products/def", "/nope", "/metrics"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, []httpObservation{
		{"GET", "/api/v1/products/:id", "2xx"},
		{"GET", "/api/v1/products/:id", "2xx"},
		{"GET", "unmatched", "4xx"},
	}, rec.seen)
	assert.Equal(t, 0.0, testutil.ToFloat64(rec.inFlight))
}

func TestHTTPMetrics_Disabled(t *testing.T) {
	rec := newFakeHTTPRecorder()
	cfg := DefaultHTTPMetricsConfig(rec)
	cfg.Enabled = false

	router := gin.New()
	router.Use(HTTPMetrics(cfg))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Empty(t, rec.seen)
}

func TestHTTPMetricsStatusGroup(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{101, "1xx"},
		{200, "2xx"},
		{204, "2xx"},
		{302, "3xx"},
		{404, "4xx"},
		{429, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPMetricsStatusGroup(tt.code))
		})
	}
}
