//go:build loadtest

package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/baggage"
)

const loadtestRunIDKey = "loadtest.run_id"

// appendLoadtestLabels tags measurements with the load test run carried in
// the request baggage.
func appendLoadtestLabels(ctx context.Context, attrs []attribute.KeyValue) []attribute.KeyValue {
	runID := baggage.FromContext(ctx).Member(loadtestRunIDKey).Value()
	if runID == "" {
		return attrs
	}
	return append(attrs, attribute.String(loadtestRunIDKey, runID))
}
