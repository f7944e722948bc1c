//go:build !gcloud

package logging

import (
	"context"
	"log/slog"
)

// Outside Google Cloud the trace_id and span_id attributes are enough.
func gcpTraceAttrs(context.Context, string) []slog.Attr {
	return nil
}
