package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const refreshTracerName = "github.com/KasumiMercury/primind-notification-scheduling/internal/service/refresh"

func RefreshTracer() trace.Tracer {
	return otel.Tracer(refreshTracerName)
}

func StartRefreshSpan(ctx context.Context, runID, trigger string) (context.Context, trace.Span) {
	return RefreshTracer().Start(ctx, "notification.refresh",
		trace.WithAttributes(
			attribute.String("refresh.run_id", runID),
			attribute.String("refresh.trigger", trigger),
		),
	)
}

func StartBuildAppletSpan(ctx context.Context, appletID string, eventCount int) (context.Context, trace.Span) {
	return RefreshTracer().Start(ctx, "notification.build_applet",
		trace.WithAttributes(
			attribute.String("applet_id", appletID),
			attribute.Int("applet.event_count", eventCount),
		),
	)
}

func StartScheduleSpan(ctx context.Context, notificationCount int) (context.Context, trace.Span) {
	return RefreshTracer().Start(ctx, "notification.schedule",
		trace.WithAttributes(
			attribute.Int("schedule.notification_count", notificationCount),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func StartRedisOperationSpan(ctx context.Context, operation, key string) (context.Context, trace.Span) {
	return RefreshTracer().Start(ctx, "notification.redis."+operation,
		trace.WithAttributes(
			attribute.String("db.system", "redis"),
			attribute.String("db.operation", operation),
			attribute.String("db.key", key),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func StartTaskQueueSpan(ctx context.Context, operation, taskID string) (context.Context, trace.Span) {
	return RefreshTracer().Start(ctx, "notification.task_queue."+operation,
		trace.WithAttributes(
			attribute.String("task_id", taskID),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordRefreshResult(span trace.Span, appletCount, scheduledCount int, err error) {
	span.SetAttributes(
		attribute.Int("refresh.applet_count", appletCount),
		attribute.Int("refresh.scheduled_count", scheduledCount),
	)
	RecordError(span, err)
}

func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}
