package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-notification-scheduling/internal/domain"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/infra/taskqueue"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/observability/metrics"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/observability/tracing"
)

const (
	scheduledKey  = "notification:scheduled"
	describersKey = "notification:describers"
)

var _ domain.NotificationScheduler = (*Notifier)(nil)

type Option func(*Notifier)

// WithLimit sets the platform limit of pending notifications. Values below 2
// leave no room for the system notification and are ignored.
func WithLimit(limit int) Option {
	return func(n *Notifier) {
		if limit >= 2 {
			n.limit = limit
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(n *Notifier) {
		n.now = now
	}
}

func WithMetrics(m *metrics.SchedulerMetrics) Option {
	return func(n *Notifier) {
		n.metrics = m
	}
}

// Notifier keeps a Redis registry of the notifications handed to the task
// queue and synchronizes it with every newly computed list.
//
// The registry is a sorted set of task IDs scored by trigger time plus a hash
// of the describers keyed by task ID.
type Notifier struct {
	client  *redis.Client
	queue   taskqueue.TaskQueue
	limit   int
	now     func() time.Time
	metrics *metrics.SchedulerMetrics
}

func NewNotifier(client *redis.Client, queue taskqueue.TaskQueue, opts ...Option) *Notifier {
	n := &Notifier{
		client: client,
		queue:  queue,
		limit:  DefaultLimit,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// ScheduleNotifications replaces the pending set with notifications. Tasks
// already registered under the same task ID are left untouched.
func (n *Notifier) ScheduleNotifications(ctx context.Context, notifications []domain.NotificationDescriber) error {
	start := time.Now()
	now := n.now()

	desired, dropped := applyLimit(pending(notifications, now), n.limit)
	if dropped > 0 {
		slog.WarnContext(ctx, "pending notification limit reached",
			slog.Int("limit", n.limit),
			slog.Int("dropped", dropped),
		)
		if n.metrics != nil {
			n.metrics.RecordTruncated(ctx, dropped)
		}
	}

	if err := n.pruneFired(ctx, now); err != nil {
		return fmt.Errorf("prune fired notifications: %w", err)
	}

	current, err := n.client.ZRange(ctx, scheduledKey, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("read scheduled registry: %w", err)
	}
	registered := make(map[string]struct{}, len(current))
	for _, taskID := range current {
		registered[taskID] = struct{}{}
	}

	desiredByTask := make(map[string]domain.NotificationDescriber, len(desired))
	for _, d := range desired {
		desiredByTask[taskqueue.TaskID(d)] = d
	}

	var errs []error

	removed := make([]string, 0)
	for _, taskID := range current {
		if _, ok := desiredByTask[taskID]; ok {
			continue
		}
		if err := n.deleteTask(ctx, taskID); err != nil {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, taskID)
	}

	keep := make([]domain.NotificationDescriber, 0, len(desired))
	added := 0
	for _, d := range desired {
		if _, ok := registered[taskqueue.TaskID(d)]; !ok {
			if err := n.registerTask(ctx, d); err != nil {
				errs = append(errs, err)
				continue
			}
			added++
		}
		keep = append(keep, d)
	}

	if err := n.writeRegistry(ctx, removed, keep); err != nil {
		errs = append(errs, fmt.Errorf("write scheduled registry: %w", err))
	}

	if n.metrics != nil {
		n.metrics.RecordSyncDuration(ctx, time.Since(start))
	}

	slog.InfoContext(ctx, "notification registry synchronized",
		slog.Int("pending", len(keep)),
		slog.Int("registered", added),
		slog.Int("deleted", len(removed)),
		slog.Int("failed", len(errs)),
	)

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrSyncIncomplete, errors.Join(errs...))
	}
	return nil
}

func (n *Notifier) CancelAll(ctx context.Context) error {
	current, err := n.client.ZRange(ctx, scheduledKey, 0, -1).Result()
	if err != nil {
		return err
	}

	var errs []error
	removed := make([]string, 0, len(current))
	for _, taskID := range current {
		if err := n.deleteTask(ctx, taskID); err != nil {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, taskID)
	}

	if err := n.writeRegistry(ctx, removed, nil); err != nil {
		errs = append(errs, err)
	}

	slog.InfoContext(ctx, "all scheduled notifications cancelled",
		slog.Int("cancelled", len(removed)),
	)

	return errors.Join(errs...)
}

// CancelOne cancels the pending notification with the given describer ID.
func (n *Notifier) CancelOne(ctx context.Context, id string) error {
	scheduled, err := n.ListScheduled(ctx)
	if err != nil {
		return err
	}

	for _, s := range scheduled {
		if s.ID != id {
			continue
		}
		taskID := taskqueue.TaskID(s)
		if err := n.deleteTask(ctx, taskID); err != nil {
			return err
		}
		return n.writeRegistry(ctx, []string{taskID}, nil)
	}

	return fmt.Errorf("%w: %s", domain.ErrNotificationMissing, id)
}

func (n *Notifier) ListScheduled(ctx context.Context) ([]domain.NotificationDescriber, error) {
	taskIDs, err := n.client.ZRange(ctx, scheduledKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(taskIDs) == 0 {
		return []domain.NotificationDescriber{}, nil
	}

	values, err := n.client.HMGet(ctx, describersKey, taskIDs...).Result()
	if err != nil {
		return nil, err
	}

	out := make([]domain.NotificationDescriber, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			slog.WarnContext(ctx, "scheduled task has no describer",
				slog.String("task_id", taskIDs[i]),
			)
			continue
		}
		var d domain.NotificationDescriber
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			return nil, fmt.Errorf("task %s: %w", taskIDs[i], ErrInvalidNotificationData)
		}
		out = append(out, d)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TriggerAt.Before(out[j].TriggerAt)
	})
	return out, nil
}

// pruneFired forgets registry entries whose trigger time has passed. Their
// tasks have already been delivered by the queue.
func (n *Notifier) pruneFired(ctx context.Context, now time.Time) error {
	ctx, span := tracing.StartRedisOperationSpan(ctx, "prune", scheduledKey)
	defer span.End()

	maxScore := strconv.FormatInt(now.Unix(), 10)
	fired, err := n.client.ZRangeByScore(ctx, scheduledKey, &redis.ZRangeBy{Min: "-inf", Max: maxScore}).Result()
	if err != nil {
		tracing.RecordError(span, err)
		return err
	}
	if len(fired) == 0 {
		return nil
	}

	err = n.writeRegistry(ctx, fired, nil)
	tracing.RecordError(span, err)
	return err
}

func (n *Notifier) writeRegistry(ctx context.Context, removed []string, upserted []domain.NotificationDescriber) error {
	if len(removed) == 0 && len(upserted) == 0 {
		return nil
	}

	pipe := n.client.TxPipeline()
	if len(removed) > 0 {
		members := make([]any, 0, len(removed))
		for _, taskID := range removed {
			members = append(members, taskID)
		}
		pipe.ZRem(ctx, scheduledKey, members...)
		pipe.HDel(ctx, describersKey, removed...)
	}
	for _, d := range upserted {
		data, err := json.Marshal(d)
		if err != nil {
			return ErrInvalidNotificationData
		}
		taskID := taskqueue.TaskID(d)
		pipe.ZAdd(ctx, scheduledKey, redis.Z{Score: float64(d.TriggerAt.Unix()), Member: taskID})
		pipe.HSet(ctx, describersKey, taskID, data)
	}

	_, err := pipe.Exec(ctx)
	return err
}

func (n *Notifier) registerTask(ctx context.Context, d domain.NotificationDescriber) error {
	task := taskqueue.NewNotificationTask(d)

	ctx, span := tracing.StartTaskQueueSpan(ctx, "register", task.TaskID)
	defer span.End()

	_, err := n.queue.RegisterNotification(ctx, task)
	tracing.RecordError(span, err)
	n.recordOperation(ctx, "register", err)
	if err != nil {
		slog.WarnContext(ctx, "failed to register notification task",
			slog.String("notification_id", d.ID),
			slog.String("task_id", task.TaskID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("register %s: %w", d.ID, err)
	}
	return nil
}

func (n *Notifier) deleteTask(ctx context.Context, taskID string) error {
	ctx, span := tracing.StartTaskQueueSpan(ctx, "delete", taskID)
	defer span.End()

	err := n.queue.DeleteTask(ctx, taskID)
	tracing.RecordError(span, err)
	n.recordOperation(ctx, "delete", err)
	if err != nil {
		slog.WarnContext(ctx, "failed to delete notification task",
			slog.String("task_id", taskID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("delete %s: %w", taskID, err)
	}
	return nil
}

func (n *Notifier) recordOperation(ctx context.Context, operation string, err error) {
	if n.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	n.metrics.RecordTaskOperation(ctx, operation, outcome)
}
