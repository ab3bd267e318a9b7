package telemetry

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the Prometheus registry and every collector of the service.
// Services receive it through narrow recorder interfaces.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	httpInFlight  prometheus.Gauge
	ordersPlaced  *prometheus.CounterVec
	orderRevenue  prometheus.Counter
	orderStatus   *prometheus.CounterVec
	payments      *prometheus.CounterVec
	outboxEvents  *prometheus.CounterVec
	rateLimitHits *prometheus.CounterVec

	// otlp is set by ExportOTLP
	otlp *otlpInstruments
}

// NewMetrics creates a registry with the Go and process collectors and the
// service metrics under namespace.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "secureshop"
	}
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status class.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Requests currently being served.",
		}),
		ordersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "placed_total",
			Help:      "Orders placed by payment method.",
		}, []string{"payment_method"}),
		orderRevenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "placed_amount_vnd_total",
			Help:      "Grand total of placed orders in VND.",
		}),
		orderStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "transitions_total",
			Help:      "Order status transitions by target status.",
		}, []string{"status"}),
		payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payments",
			Name:      "results_total",
			Help:      "Gateway payment results by provider and outcome.",
		}, []string{"provider", "result"}),
		outboxEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "events_total",
			Help:      "Outbox deliveries by event type and outcome.",
		}, []string{"event_type", "result"}),
		rateLimitHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter, by limiter name.",
		}, []string{"limiter"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests, m.httpDuration, m.httpInFlight,
		m.ordersPlaced, m.orderRevenue, m.orderStatus,
		m.payments, m.outboxEvents, m.rateLimitHits,
	)
	return m
}

// RegisterDB exports connection pool stats of db under the name label.
func (m *Metrics) RegisterDB(db *sql.DB, name string) error {
	return m.registry.Register(collectors.NewDBStatsCollector(db, name))
}

// Registry exposes the registry for tests and extra collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTP records one finished request
func (m *Metrics) ObserveHTTP(method, route, status string, seconds float64) {
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(seconds)
}

// InFlight returns the in-flight gauge
func (m *Metrics) InFlight() prometheus.Gauge {
	return m.httpInFlight
}

// RateLimited counts a rejected request
func (m *Metrics) RateLimited(limiter string) {
	m.rateLimitHits.WithLabelValues(limiter).Inc()
}

// OrderPlaced counts a placed order and its grand total
func (m *Metrics) OrderPlaced(paymentMethod string, grandTotal float64) {
	m.ordersPlaced.WithLabelValues(paymentMethod).Inc()
	m.orderRevenue.Add(grandTotal)
	if m.otlp != nil {
		m.otlp.orderPlaced(paymentMethod, grandTotal)
	}
}

// OrderTransitioned counts a status change
func (m *Metrics) OrderTransitioned(status string) {
	m.orderStatus.WithLabelValues(status).Inc()
	if m.otlp != nil {
		m.otlp.orderTransitioned(status)
	}
}

// PaymentResult counts a gateway outcome
func (m *Metrics) PaymentResult(provider string, paid bool) {
	result := "failed"
	if paid {
		result = "paid"
	}
	m.payments.WithLabelValues(provider, result).Inc()
	if m.otlp != nil {
		m.otlp.paymentResult(provider, result)
	}
}

// OutboxDelivered counts an outbox delivery attempt
func (m *Metrics) OutboxDelivered(eventType string, ok bool) {
	result := "error"
	if ok {
		result = "ok"
	}
	m.outboxEvents.WithLabelValues(eventType, result).Inc()
	if m.otlp != nil {
		m.otlp.outboxDelivered(eventType, result)
	}
}
