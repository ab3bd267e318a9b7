package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPRecorder receives one observation per served request
type HTTPRecorder interface {
	ObserveHTTP(method, route, status string, seconds float64)
	InFlight() prometheus.Gauge
}

// HTTPMetricsConfig configures the HTTP metrics middleware
type HTTPMetricsConfig struct {
	Recorder HTTPRecorder
	Enabled  bool
	// SkipPaths are not measured, typically the scrape endpoint itself
	SkipPaths []string
}

// DefaultHTTPMetricsConfig returns the default configuration
func DefaultHTTPMetricsConfig(recorder HTTPRecorder) HTTPMetricsConfig {
	return HTTPMetricsConfig{
		Recorder:  recorder,
		Enabled:   true,
		SkipPaths: []string{"/metrics", "/health"},
	}
}

// HTTPMetrics returns a Gin middleware that records request count, latency
// and in-flight requests. Labels use the route pattern rather than the raw
// path, and status is grouped by class, to keep cardinality bounded.
func HTTPMetrics(cfg HTTPMetricsConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.Recorder == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}
	inFlight := cfg.Recorder.InFlight()

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		inFlight.Inc()
		c.Next()
		inFlight.Dec()

		cfg.Recorder.ObserveHTTP(
			c.Request.Method,
			getRoutePattern(c),
			HTTPMetricsStatusGroup(c.Writer.Status()),
			time.Since(start).Seconds(),
		)
	}
}

// getRoutePattern returns the matched route (e.g. "/api/v1/products/:id")
func getRoutePattern(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unmatched"
}

// HTTPMetricsStatusGroup returns the status class label (2xx, 3xx, ...)
func HTTPMetricsStatusGroup(statusCode int) string {
	switch {
	case statusCode >= 500:
		return "5xx"
	case statusCode >= 400:
		return "4xx"
	case statusCode >= 300:
		return "3xx"
	case statusCode >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
