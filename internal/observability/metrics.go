package observability

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"cardpark/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

type AppMetrics struct {
	directoryOpCounter metric.Int64Counter
	resolutionCounter  metric.Int64Counter
	claimCounter       metric.Int64Counter
	favoriteCounter    metric.Int64Counter
	rateLimitCounter   metric.Int64Counter
	deviceTokenCounter metric.Int64Counter
}

var (
	metricsMu  sync.RWMutex
	appMetrics *AppMetrics
)

func InitMetrics(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sdkmetric.MeterProvider, error) {
	if !cfg.OTELMetricsEnabled {
		mp := sdkmetric.NewMeterProvider()
		otel.SetMeterProvider(mp)
		logger.Info("otel metrics disabled")
		return mp, nil
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTELExporterOTLPEndpoint)}
	if cfg.OTELExporterOTLPInsecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp metric exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.OTELServiceName),
			attribute.String("deployment.environment", cfg.OTELEnvironment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create metric resource: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.OTELMetricsExportInterval))
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(mp)

	meter := mp.Meter("cardpark")
	directoryOps, err := meter.Int64Counter("directory.operations")
	if err != nil {
		return nil, err
	}
	resolutions, err := meter.Int64Counter("code.resolutions")
	if err != nil {
		return nil, err
	}
	claims, err := meter.Int64Counter("code.claim.attempts")
	if err != nil {
		return nil, err
	}
	favorites, err := meter.Int64Counter("session.favorite.toggles")
	if err != nil {
		return nil, err
	}
	rateLimit, err := meter.Int64Counter("http.rate_limit.decisions")
	if err != nil {
		return nil, err
	}
	deviceToken, err := meter.Int64Counter("http.device_token.validations")
	if err != nil {
		return nil, err
	}

	metricsMu.Lock()
	appMetrics = &AppMetrics{
		directoryOpCounter: directoryOps,
		resolutionCounter:  resolutions,
		claimCounter:       claims,
		favoriteCounter:    favorites,
		rateLimitCounter:   rateLimit,
		deviceTokenCounter: deviceToken,
	}
	metricsMu.Unlock()

	logger.Info("otel metrics initialized", "endpoint", cfg.OTELExporterOTLPEndpoint)
	return mp, nil
}

func current() *AppMetrics {
	metricsMu.RLock()
	defer metricsMu.RUnlock()
	return appMetrics
}

func RecordDirectoryOperation(ctx context.Context, backend, operation, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.directoryOpCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("backend", backend),
			attribute.String("operation", operation),
			attribute.String("outcome", outcome),
		),
	)
}

func RecordCodeResolution(ctx context.Context, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.resolutionCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func RecordClaimAttempt(ctx context.Context, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.claimCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func RecordFavoriteToggle(ctx context.Context, action string) {
	m := current()
	if m == nil {
		return
	}
	m.favoriteCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action)))
}

func RecordRateLimitDecision(ctx context.Context, scope, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.rateLimitCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("scope", scope),
			attribute.String("outcome", outcome),
		),
	)
}

func RecordDeviceTokenValidation(ctx context.Context, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.deviceTokenCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
