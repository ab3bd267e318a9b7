package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

// MeterConfig holds the OTLP metric push settings. Prometheus scraping of
// /metrics is configured separately and keeps working either way.
type MeterConfig struct {
	Enabled           bool
	CollectorEndpoint string
	ServiceName       string
	ServiceVersion    string
	Insecure          bool
	// ExportInterval defaults to 60s
	ExportInterval time.Duration
}

// MeterProvider wraps the OpenTelemetry MeterProvider with lifecycle
// management.
type MeterProvider struct {
	provider *sdkmetric.MeterProvider
	logger   *zap.Logger
	config   MeterConfig
}

// NewMeterProvider creates a provider pushing over OTLP gRPC on a periodic
// reader and installs it globally.
func NewMeterProvider(ctx context.Context, cfg MeterConfig, logger *zap.Logger) (*MeterProvider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled {
		logger.Info("OTLP metric export disabled")
		return &MeterProvider{logger: logger, config: cfg}, nil
	}

	interval := cfg.ExportInterval
	if interval <= 0 {
		interval = 60 * time.Second
	}
	exporterOpts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		exporterOpts = append(exporterOpts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}

	res, err := serviceResource(cfg.ServiceName, cfg.ServiceVersion)
	if err != nil {
		return nil, err
	}
	mp := &MeterProvider{
		provider: sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
		),
		logger: logger,
		config: cfg,
	}
	otel.SetMeterProvider(mp.provider)

	logger.Info("OTLP metric export enabled",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Duration("export_interval", interval),
	)
	return mp, nil
}

// Meter returns a named meter, from the global provider when disabled.
func (mp *MeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if mp.provider == nil {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return mp.provider.Meter(name, opts...)
}

// IsEnabled reports whether metrics are pushed.
func (mp *MeterProvider) IsEnabled() bool {
	return mp.config.Enabled && mp.provider != nil
}

// Shutdown flushes and stops the periodic reader.
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.provider == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := mp.provider.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	return nil
}

// otlpInstruments mirror the business counters of Metrics onto an
// OpenTelemetry meter
type otlpInstruments struct {
	ordersPlaced metric.Int64Counter
	orderRevenue metric.Float64Counter
	orderStatus  metric.Int64Counter
	payments     metric.Int64Counter
	outboxEvents metric.Int64Counter
}

// ExportOTLP mirrors the order, payment and outbox counters onto meter. Call
// it once during startup, before the recorders are used.
func (m *Metrics) ExportOTLP(meter metric.Meter) error {
	var (
		inst otlpInstruments
		errs []error
		err  error
	)
	inst.ordersPlaced, err = meter.Int64Counter("secureshop.orders.placed",
		metric.WithDescription("Orders placed"), metric.WithUnit("{order}"))
	errs = append(errs, err)
	inst.orderRevenue, err = meter.Float64Counter("secureshop.orders.revenue",
		metric.WithDescription("Grand total of placed orders"), metric.WithUnit("VND"))
	errs = append(errs, err)
	inst.orderStatus, err = meter.Int64Counter("secureshop.orders.transitions",
		metric.WithDescription("Order status transitions"), metric.WithUnit("{transition}"))
	errs = append(errs, err)
	inst.payments, err = meter.Int64Counter("secureshop.payments",
		metric.WithDescription("Gateway payment outcomes"), metric.WithUnit("{payment}"))
	errs = append(errs, err)
	inst.outboxEvents, err = meter.Int64Counter("secureshop.outbox.deliveries",
		metric.WithDescription("Outbox delivery attempts"), metric.WithUnit("{delivery}"))
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("create otlp instruments: %w", err)
	}
	m.otlp = &inst
	return nil
}

func (i *otlpInstruments) orderPlaced(paymentMethod string, grandTotal float64) {
	ctx := context.Background()
	i.ordersPlaced.Add(ctx, 1, metric.WithAttributes(attribute.String("payment_method", paymentMethod)))
	i.orderRevenue.Add(ctx, grandTotal)
}

func (i *otlpInstruments) orderTransitioned(status string) {
	i.orderStatus.Add(context.Background(), 1, metric.WithAttributes(attribute.String("status", status)))
}

func (i *otlpInstruments) paymentResult(provider, result string) {
	i.payments.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("result", result),
	))
}

func (i *otlpInstruments) outboxDelivered(eventType, result string) {
	i.outboxEvents.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("event_type", eventType),
		attribute.String("result", result),
	))
}
