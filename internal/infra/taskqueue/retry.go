package taskqueue

import (
	"context"
	"log/slog"
	"math"
	"time"
)

const defaultMaxRetries = 3

func backoffFor(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt-1))) * 100 * time.Millisecond
}

// withRetry runs fn up to maxRetries times with exponential backoff between
// attempts and returns the last error.
func withRetry(ctx context.Context, maxRetries int, operation, taskID string, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := backoffFor(attempt)
			slog.Debug("retrying task operation",
				slog.String("operation", operation),
				slog.String("task_id", taskID),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		if lastErr = fn(); lastErr == nil {
			return nil
		}
	}

	slog.Error("all retries exhausted for task operation",
		slog.String("operation", operation),
		slog.String("task_id", taskID),
		slog.Int("max_retries", maxRetries),
		slog.String("error", lastErr.Error()),
	)
	return lastErr
}
