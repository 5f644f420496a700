package observability

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"cardpark/internal/config"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
)

// InitLogging builds the process logger. When OTLP log export is
// enabled the slog handler bridges into the OTel pipeline; otherwise
// logs go to stderr as text (dev) or JSON (prod).
func InitLogging(ctx context.Context, cfg *config.Config) (*slog.Logger, *sdklog.LoggerProvider, error) {
	if !cfg.OTELLogsEnabled {
		var handler slog.Handler
		if cfg.Profile == config.ProfileProd {
			handler = slog.NewJSONHandler(os.Stderr, nil)
		} else {
			handler = slog.NewTextHandler(os.Stderr, nil)
		}
		logger := slog.New(handler)
		slog.SetDefault(logger)
		return logger, nil, nil
	}

	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.OTELExporterOTLPEndpoint)}
	if cfg.OTELExporterOTLPInsecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("create otlp log exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.OTELServiceName),
			attribute.String("deployment.environment", cfg.OTELEnvironment),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create log resource: %w", err)
	}

	lp := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
		sdklog.WithResource(res),
	)
	logger := slog.New(otelslog.NewHandler("cardpark", otelslog.WithLoggerProvider(lp)))
	slog.SetDefault(logger)
	return logger, lp, nil
}
