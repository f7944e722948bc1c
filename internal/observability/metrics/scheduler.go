package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	schedulerMeterName = "notification.scheduler"
)

type SchedulerMetrics struct {
	taskOperations metric.Int64Counter
	syncDuration   metric.Float64Histogram
	truncated      metric.Int64Counter
}

func NewSchedulerMetrics() (*SchedulerMetrics, error) {
	meter := otel.Meter(schedulerMeterName)

	taskOperations, err := meter.Int64Counter(
		"notification_task_operations_total",
		metric.WithDescription("Total number of task queue operations issued by the scheduler"),
		metric.WithUnit("{task}"),
	)
	if err != nil {
		return nil, err
	}

	syncDuration, err := meter.Float64Histogram(
		"notification_sync_duration_seconds",
		metric.WithDescription("Time spent synchronizing the scheduled registry with the task queue"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
		),
	)
	if err != nil {
		return nil, err
	}

	truncated, err := meter.Int64Counter(
		"notification_truncated_total",
		metric.WithDescription("Total number of notifications dropped by the pending notification limit"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerMetrics{
		taskOperations: taskOperations,
		syncDuration:   syncDuration,
		truncated:      truncated,
	}, nil
}

func (m *SchedulerMetrics) RecordTaskOperation(ctx context.Context, operation, outcome string) {
	m.taskOperations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

func (m *SchedulerMetrics) RecordSyncDuration(ctx context.Context, duration time.Duration) {
	attrs := appendLoadtestLabels(ctx, nil)
	m.syncDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

func (m *SchedulerMetrics) RecordTruncated(ctx context.Context, count int) {
	if count <= 0 {
		return
	}
	m.truncated.Add(ctx, int64(count))
}
