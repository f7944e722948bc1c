package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/KasumiMercury/primind-notification-scheduling/internal/observability/logging"
)

type Config struct {
	ServiceInfo   logging.ServiceInfo
	Environment   logging.Environment
	GCPProjectID  string
	SamplingRate  float64
	DefaultModule logging.Module
	LogLevel      slog.Leveler
}

// Resources owns the process-wide logger and the OTel providers.
type Resources struct {
	logger         *slog.Logger
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

func Init(ctx context.Context, cfg Config) (*Resources, error) {
	logger := slog.New(logging.NewHandler(os.Stdout, logging.HandlerConfig{
		Service:       cfg.ServiceInfo,
		Environment:   cfg.Environment,
		Level:         cfg.LogLevel,
		DefaultModule: cfg.DefaultModule,
		GCPProjectID:  cfg.GCPProjectID,
	}))

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithAttributes(
			attribute.String("service.name", cfg.ServiceInfo.Name),
			attribute.String("service.version", cfg.ServiceInfo.Version),
			attribute.String("deployment.environment", string(cfg.Environment)),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("build otel resource: %w", err)
	}

	spanExporter, metricReader, err := newExporters(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SamplingRate))),
	}
	if spanExporter != nil {
		tpOpts = append(tpOpts, sdktrace.WithBatcher(spanExporter))
	}
	tracerProvider := sdktrace.NewTracerProvider(tpOpts...)

	mpOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	if metricReader != nil {
		mpOpts = append(mpOpts, sdkmetric.WithReader(metricReader))
	}
	meterProvider := sdkmetric.NewMeterProvider(mpOpts...)

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Resources{
		logger:         logger,
		tracerProvider: tracerProvider,
		meterProvider:  meterProvider,
	}, nil
}

func (r *Resources) Logger() *slog.Logger {
	return r.logger
}

// Shutdown flushes pending spans and metrics.
func (r *Resources) Shutdown(ctx context.Context) error {
	return errors.Join(
		r.tracerProvider.Shutdown(ctx),
		r.meterProvider.Shutdown(ctx),
	)
}
