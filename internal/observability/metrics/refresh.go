package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	refreshMeterName = "notification.refresh"
)

type RefreshMetrics struct {
	refreshDuration metric.Float64Histogram
	scheduled       metric.Int64Counter
	breaks          metric.Int64Counter
	skipped         metric.Int64Counter
}

func NewRefreshMetrics() (*RefreshMetrics, error) {
	meter := otel.Meter(refreshMeterName)

	refreshDuration, err := meter.Float64Histogram(
		"notification_refresh_duration_seconds",
		metric.WithDescription("Time spent rebuilding and scheduling notifications"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
		),
	)
	if err != nil {
		return nil, err
	}

	scheduled, err := meter.Int64Counter(
		"notification_scheduled_total",
		metric.WithDescription("Total number of notifications handed to the scheduler"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	breaks, err := meter.Int64Counter(
		"notification_break_total",
		metric.WithDescription("Total number of events skipped with a break reason"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	skipped, err := meter.Int64Counter(
		"notification_refresh_skipped_total",
		metric.WithDescription("Total number of refresh requests skipped because a gate was busy"),
		metric.WithUnit("{refresh}"),
	)
	if err != nil {
		return nil, err
	}

	return &RefreshMetrics{
		refreshDuration: refreshDuration,
		scheduled:       scheduled,
		breaks:          breaks,
		skipped:         skipped,
	}, nil
}

func (m *RefreshMetrics) RecordRefreshDuration(ctx context.Context, trigger, outcome string, duration time.Duration) {
	attrs := appendLoadtestLabels(ctx, []attribute.KeyValue{
		attribute.String("trigger", trigger),
		attribute.String("outcome", outcome),
	})
	m.refreshDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

func (m *RefreshMetrics) RecordScheduled(ctx context.Context, kind string, count int) {
	if count == 0 {
		return
	}
	m.scheduled.Add(ctx, int64(count), metric.WithAttributes(
		attribute.String("kind", kind),
	))
}

func (m *RefreshMetrics) RecordBreak(ctx context.Context, reason string) {
	m.breaks.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}

func (m *RefreshMetrics) RecordSkipped(ctx context.Context, reason string) {
	m.skipped.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}
