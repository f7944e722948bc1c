package metrics

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const httpMeterName = "notification.http"

type HTTPMetrics struct {
	requestDuration metric.Float64Histogram
	requests        metric.Int64Counter
}

func NewHTTPMetrics() (*HTTPMetrics, error) {
	meter := otel.Meter(httpMeterName)

	requestDuration, err := meter.Float64Histogram(
		"http_server_request_duration_seconds",
		metric.WithDescription("Duration of inbound HTTP requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requests, err := meter.Int64Counter(
		"http_server_requests_total",
		metric.WithDescription("Total number of inbound HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{
		requestDuration: requestDuration,
		requests:        requests,
	}, nil
}

func (m *HTTPMetrics) RecordRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	attrs := appendLoadtestLabels(ctx, []attribute.KeyValue{
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.String("status_code", strconv.Itoa(status)),
	})
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	m.requests.Add(ctx, 1, metric.WithAttributes(attrs...))
}
