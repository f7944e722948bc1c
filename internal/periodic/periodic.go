package periodic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/KasumiMercury/primind-notification-scheduling/internal/domain"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/service/refresh"
)

var ErrInvalidSchedule = errors.New("invalid refresh schedule")

type Refresher interface {
	Refresh(ctx context.Context, trigger domain.LogTrigger) (*refresh.Result, error)
}

// Runner re-runs the notification refresh on a cron schedule so the queued
// window keeps rolling forward while the app stays idle.
type Runner struct {
	cron      *cron.Cron
	refresher Refresher
	timeout   time.Duration
	enabled   bool
}

// NewRunner parses schedule as a standard five field cron expression evaluated
// in loc. An empty schedule yields a runner whose Start and Stop do nothing.
func NewRunner(schedule string, loc *time.Location, refresher Refresher, timeout time.Duration) (*Runner, error) {
	if loc == nil {
		loc = time.Local
	}

	r := &Runner{
		cron:      cron.New(cron.WithLocation(loc)),
		refresher: refresher,
		timeout:   timeout,
	}
	if schedule == "" {
		return r, nil
	}

	if _, err := r.cron.AddFunc(schedule, r.run); err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidSchedule, schedule, err)
	}
	r.enabled = true
	return r, nil
}

func (r *Runner) Enabled() bool {
	return r.enabled
}

func (r *Runner) Start() {
	if !r.enabled {
		slog.Info("periodic refresh disabled")
		return
	}
	r.cron.Start()
	slog.Info("periodic refresh started",
		slog.Time("next_run", r.cron.Entries()[0].Next),
	)
}

// Stop prevents further runs and waits for an in-flight refresh until ctx ends.
func (r *Runner) Stop(ctx context.Context) error {
	if !r.enabled {
		return nil
	}
	select {
	case <-r.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) run() {
	ctx := context.Background()
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	result, err := r.refresher.Refresh(ctx, domain.LogTriggerPeriodic)
	if err != nil {
		slog.ErrorContext(ctx, "periodic refresh failed",
			slog.String("error", err.Error()),
		)
		return
	}
	if result.Skipped {
		return
	}
	slog.DebugContext(ctx, "periodic refresh completed",
		slog.String("run_id", result.RunID),
		slog.Int("scheduled_count", result.Scheduled),
	)
}
