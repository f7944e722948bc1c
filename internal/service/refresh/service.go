package refresh

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/KasumiMercury/primind-notification-scheduling/internal/domain"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/mutex"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/observability/metrics"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/observability/tracing"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/service/builder"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/service/days"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/service/trigger"
)

type Service struct {
	cache     domain.CacheReader
	progress  domain.ProgressRepository
	resolver  domain.ScheduledDateResolver
	scheduler domain.NotificationScheduler
	recorder  domain.RefreshRecorder

	notificationGate   *mutex.Gate
	autoCompletionGate *mutex.Gate

	extractor      *days.Extractor
	refreshMetrics *metrics.RefreshMetrics
	opts           Options
}

func NewService(
	cache domain.CacheReader,
	progress domain.ProgressRepository,
	resolver domain.ScheduledDateResolver,
	scheduler domain.NotificationScheduler,
	recorder domain.RefreshRecorder,
	notificationGate *mutex.Gate,
	autoCompletionGate *mutex.Gate,
	refreshMetrics *metrics.RefreshMetrics,
	opts Options,
) *Service {
	if opts.HorizonDays <= 0 {
		opts.HorizonDays = builder.DefaultHorizonDays
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Service{
		cache:              cache,
		progress:           progress,
		resolver:           resolver,
		scheduler:          scheduler,
		recorder:           recorder,
		notificationGate:   notificationGate,
		autoCompletionGate: autoCompletionGate,
		extractor:          days.NewExtractor(),
		refreshMetrics:     refreshMetrics,
		opts:               opts,
	}
}

// Refresh rebuilds every notification from the cached data and hands the
// result to the scheduler. A call made while another refresh or an
// auto-completion is in flight returns a skipped result without touching
// any collaborator.
func (s *Service) Refresh(ctx context.Context, logTrigger domain.LogTrigger) (*Result, error) {
	if !s.notificationGate.TryAcquire() {
		return s.skip(ctx, logTrigger, SkipReasonRefreshInProgress), nil
	}
	defer s.notificationGate.Release()

	if s.autoCompletionGate != nil && s.autoCompletionGate.IsBusy() {
		return s.skip(ctx, logTrigger, SkipReasonAutoCompletionInProgress), nil
	}

	runID := uuid.NewString()
	ctx, span := tracing.StartRefreshSpan(ctx, runID, string(logTrigger))
	defer span.End()

	start := time.Now()
	result, err := s.refresh(ctx, runID, logTrigger)

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	if s.refreshMetrics != nil {
		s.refreshMetrics.RecordRefreshDuration(ctx, string(logTrigger), outcome, time.Since(start))
	}

	if err != nil {
		tracing.RecordRefreshResult(span, 0, 0, err)
		slog.ErrorContext(ctx, "notification refresh failed",
			slog.String("run_id", runID),
			slog.String("trigger", string(logTrigger)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	tracing.RecordRefreshResult(span, result.AppletCount, result.Scheduled, nil)
	return result, nil
}

func (s *Service) refresh(ctx context.Context, runID string, logTrigger domain.LogTrigger) (*Result, error) {
	applets, err := s.cache.GetApplets(ctx)
	if err != nil {
		return nil, fmt.Errorf("get applets: %w", err)
	}

	snapshot, err := s.progress.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load progress snapshot: %w", err)
	}

	now := s.opts.Now().In(s.opts.Location)
	utility := trigger.NewUtility(now, s.opts.Location, s.opts.RandomSeed, snapshot)

	describers := make([]domain.AppletNotificationDescribers, 0, len(applets))
	for _, applet := range applets {
		appletResult, ok, err := s.buildApplet(ctx, applet, utility, now)
		if err != nil {
			return nil, err
		}
		if ok {
			describers = append(describers, appletResult)
		}
	}

	notifications := make([]domain.NotificationDescriber, 0)
	brokenEvents := 0
	for _, applet := range describers {
		for _, event := range applet.Events {
			if event.BreakReason != nil {
				brokenEvents++
				if s.refreshMetrics != nil {
					s.refreshMetrics.RecordBreak(ctx, event.BreakReason.String())
				}
			}
		}
		notifications = append(notifications, applet.Schedulable()...)
	}
	SortNotifications(notifications)

	scheduleCtx, scheduleSpan := tracing.StartScheduleSpan(ctx, len(notifications))
	err = s.scheduler.ScheduleNotifications(scheduleCtx, notifications)
	tracing.RecordError(scheduleSpan, err)
	scheduleSpan.End()
	if err != nil {
		return nil, fmt.Errorf("schedule notifications: %w", err)
	}

	if s.refreshMetrics != nil {
		byKind := make(map[domain.NotificationKind]int)
		for _, n := range notifications {
			byKind[n.Kind]++
		}
		for kind, count := range byKind {
			s.refreshMetrics.RecordScheduled(ctx, string(kind), count)
		}
	}

	s.record(ctx, domain.RefreshLogRecord{
		RunID:      runID,
		Trigger:    logTrigger,
		Action:     domain.LogActionReschedule,
		Describers: describers,
		Scheduled:  len(notifications),
		RecordedAt: now,
	})

	return &Result{
		RunID:         runID,
		Trigger:       logTrigger,
		AppletCount:   len(describers),
		BrokenEvents:  brokenEvents,
		Scheduled:     len(notifications),
		Notifications: notifications,
		Describers:    describers,
	}, nil
}

// buildApplet returns ok=false when the applet's cache entries are missing.
func (s *Service) buildApplet(ctx context.Context, applet domain.Applet, utility *trigger.Utility, now time.Time) (domain.AppletNotificationDescribers, bool, error) {
	details, err := s.cache.GetAppletDetails(ctx, applet.ID)
	if errors.Is(err, domain.ErrCacheEntryNotFound) {
		slog.InfoContext(ctx, "applet details are not cached, skipping applet",
			slog.String("applet_id", applet.ID),
		)
		return domain.AppletNotificationDescribers{}, false, nil
	}
	if err != nil {
		return domain.AppletNotificationDescribers{}, false, fmt.Errorf("get applet details %s: %w", applet.ID, err)
	}
	if details == nil {
		return domain.AppletNotificationDescribers{}, false, nil
	}

	events, err := s.cache.GetEvents(ctx, applet.ID)
	if errors.Is(err, domain.ErrCacheEntryNotFound) {
		slog.InfoContext(ctx, "applet events are not cached, skipping applet",
			slog.String("applet_id", applet.ID),
		)
		return domain.AppletNotificationDescribers{}, false, nil
	}
	if err != nil {
		return domain.AppletNotificationDescribers{}, false, fmt.Errorf("get events %s: %w", applet.ID, err)
	}

	eventEntities := s.joinEventEntities(ctx, applet.ID, details, events, now)

	buildCtx, span := tracing.StartBuildAppletSpan(ctx, applet.ID, len(eventEntities))
	defer span.End()

	b := builder.NewBuilder(builder.Input{
		AppletID:      applet.ID,
		AppletName:    applet.DisplayName,
		EventEntities: eventEntities,
		HorizonDays:   s.opts.HorizonDays,
	}, utility, s.extractor)

	return b.Build(buildCtx), true, nil
}

// joinEventEntities matches events to cached entities and fans out one entry
// per assignment. Input events are copied before their occurrence is resolved.
func (s *Service) joinEventEntities(ctx context.Context, appletID string, details *domain.AppletDetails, events []domain.ScheduleEvent, now time.Time) []domain.EventEntity {
	entities := make(map[string]domain.Entity, len(details.Activities)+len(details.ActivityFlows))
	for _, e := range details.Activities {
		entities[e.ID] = e
	}
	for _, e := range details.ActivityFlows {
		entities[e.ID] = e
	}

	assignments := make(map[string][]domain.Assignment)
	for _, ref := range details.Assignments {
		assignments[ref.EntityID] = append(assignments[ref.EntityID], ref.Assignment)
	}

	out := make([]domain.EventEntity, 0, len(events))
	for _, event := range events {
		entity, ok := entities[event.EntityID]
		if !ok {
			slog.InfoContext(ctx, "event references an unknown entity, skipping event",
				slog.String("applet_id", appletID),
				slog.String("event_id", event.ID),
				slog.String("entity_id", event.EntityID),
			)
			continue
		}

		resolved := event.WithScheduledAt(s.resolver.Calculate(event, now))

		refs := assignments[entity.ID]
		if len(refs) == 0 {
			out = append(out, domain.EventEntity{Event: resolved, Entity: entity})
			continue
		}
		for _, a := range refs {
			assignment := a
			out = append(out, domain.EventEntity{Event: resolved, Entity: entity, Assignment: &assignment})
		}
	}
	return out
}

func (s *Service) record(ctx context.Context, record domain.RefreshLogRecord) {
	slog.InfoContext(ctx, "notifications rescheduled",
		slog.String("run_id", record.RunID),
		slog.String("trigger", string(record.Trigger)),
		slog.String("action", string(record.Action)),
		slog.Int("applet_count", len(record.Describers)),
		slog.Int("scheduled_count", record.Scheduled),
	)

	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(ctx, record); err != nil {
		slog.WarnContext(ctx, "failed to record refresh result",
			slog.String("run_id", record.RunID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) skip(ctx context.Context, logTrigger domain.LogTrigger, reason string) *Result {
	slog.InfoContext(ctx, "notification refresh skipped",
		slog.String("trigger", string(logTrigger)),
		slog.String("reason", reason),
	)
	if s.refreshMetrics != nil {
		s.refreshMetrics.RecordSkipped(ctx, reason)
	}
	return &Result{
		Trigger:    logTrigger,
		Skipped:    true,
		SkipReason: reason,
	}
}

var kindOrder = map[domain.NotificationKind]int{
	domain.NotificationKindRegular:          0,
	domain.NotificationKindReminder:         1,
	domain.NotificationKindSystemReschedule: 2,
}

// SortNotifications orders by trigger instant; ties put regular
// notifications before reminders, then fall back to the ID.
func SortNotifications(notifications []domain.NotificationDescriber) {
	slices.SortStableFunc(notifications, func(a, b domain.NotificationDescriber) int {
		if c := a.TriggerAt.Compare(b.TriggerAt); c != 0 {
			return c
		}
		if c := cmp.Compare(kindOrder[a.Kind], kindOrder[b.Kind]); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
