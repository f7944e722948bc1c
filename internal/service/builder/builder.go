package builder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/KasumiMercury/primind-notification-scheduling/internal/domain"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/service/days"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/service/reminder"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/service/trigger"
)

const DefaultHorizonDays = 14

type Input struct {
	AppletID      string
	AppletName    string
	EventEntities []domain.EventEntity
	// HorizonDays counts today as the first day.
	HorizonDays int
}

// Builder computes the notifications of one applet.
type Builder struct {
	appletID      string
	appletName    string
	eventEntities []domain.EventEntity

	utility   *trigger.Utility
	extractor *days.Extractor
	planner   *reminder.Planner

	lastScheduleDay time.Time
}

func NewBuilder(in Input, utility *trigger.Utility, extractor *days.Extractor) *Builder {
	horizon := in.HorizonDays
	if horizon <= 0 {
		horizon = DefaultHorizonDays
	}

	return &Builder{
		appletID:        in.AppletID,
		appletName:      in.AppletName,
		eventEntities:   in.EventEntities,
		utility:         utility,
		extractor:       extractor,
		planner:         reminder.NewPlanner(in.AppletID, utility),
		lastScheduleDay: domain.AddDays(utility.Today(), horizon-1),
	}
}

func (b *Builder) LastScheduleDay() time.Time {
	return b.lastScheduleDay
}

// Build never fails as a whole: an event whose computation fails is logged
// and left out while the remaining events still build.
func (b *Builder) Build(ctx context.Context) domain.AppletNotificationDescribers {
	result := domain.AppletNotificationDescribers{
		AppletID:   b.appletID,
		AppletName: b.appletName,
		Events:     make([]domain.EventNotificationDescribers, 0, len(b.eventEntities)),
	}

	for _, ee := range b.eventEntities {
		targetSubjectID := ee.Assignment.TargetSubjectID()

		eventResult, err := b.safeProcessEvent(ee.Event, ee.Entity, targetSubjectID)
		if err != nil {
			slog.WarnContext(ctx, "failed to build event notifications",
				slog.String("applet_id", b.appletID),
				slog.String("event_id", ee.Event.ID),
				slog.String("entity_name", ee.Entity.Name),
				slog.String("error", err.Error()),
			)
			continue
		}

		if eventResult.BreakReason != nil {
			slog.DebugContext(ctx, "event skipped",
				slog.String("applet_id", b.appletID),
				slog.String("event_id", ee.Event.ID),
				slog.String("break_reason", eventResult.BreakReason.String()),
			)
		}

		result.Events = append(result.Events, eventResult)
	}

	return result
}

func (b *Builder) safeProcessEvent(event domain.ScheduleEvent, entity domain.Entity, targetSubjectID *string) (result domain.EventNotificationDescribers, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while building event %s: %v", event.ID, r)
		}
	}()
	return b.processEvent(event, entity, targetSubjectID)
}

func (b *Builder) processEvent(event domain.ScheduleEvent, entity domain.Entity, targetSubjectID *string) (domain.EventNotificationDescribers, error) {
	availability := event.Availability
	periodicity := availability.PeriodicityType
	settings := event.NotificationSettings

	eventName := b.utility.EventName(entity.Name, periodicity, settings.Notifications, settings.Reminder)

	if event.ScheduledAt == nil {
		return domain.NewBrokenEvent(event.ID, eventName, domain.BreakReasonScheduledAtIsEmpty), nil
	}

	scheduledDay := b.utility.LocalDay(*event.ScheduledAt)
	today := b.utility.Today()

	if periodicity == domain.PeriodicityOnce && scheduledDay.Before(b.utility.Yesterday()) {
		return domain.NewBrokenEvent(event.ID, eventName, domain.BreakReasonScheduledDayBeforeYesterday), nil
	}
	if periodicity.IsRecurring() && availability.EndDate != nil && b.utility.LocalDay(*availability.EndDate).Before(today) {
		return domain.NewBrokenEvent(event.ID, eventName, domain.BreakReasonEventWindowEnded), nil
	}
	if periodicity.IsRecurring() && availability.StartDate != nil && b.utility.LocalDay(*availability.StartDate).After(b.lastScheduleDay) {
		return domain.NewBrokenEvent(event.ID, eventName, domain.BreakReasonEventWindowNotYetOpen), nil
	}
	if !entity.IsVisible {
		return domain.NewBrokenEvent(event.ID, eventName, domain.BreakReasonEntityHidden), nil
	}
	if availability.AvailabilityType == domain.AvailabilityTypeAlwaysAvailable &&
		availability.OneTimeCompletion &&
		b.utility.IsCompleted(entity.ID, event.ID, targetSubjectID) {
		return domain.NewBrokenEvent(event.ID, eventName, domain.BreakReasonOneTimeCompletionAlreadyDone), nil
	}

	if err := event.Validate(); err != nil {
		return domain.EventNotificationDescribers{}, err
	}

	result := domain.EventNotificationDescribers{
		EventID:       event.ID,
		EventName:     eventName,
		Notifications: make([]domain.NotificationDescriber, 0),
	}

	if periodicity == domain.PeriodicityOnce {
		notifications, err := b.processEventDay(scheduledDay, event, entity, targetSubjectID)
		if err != nil {
			return domain.EventNotificationDescribers{}, err
		}
		result.Notifications = append(result.Notifications, notifications...)

		once := []time.Time{scheduledDay}
		if reminders := b.planner.Create(once, once, event, entity, targetSubjectID); len(reminders) > 0 {
			result.Notifications = append(result.Notifications, reminders[0].Reminder)
		}
		return result, nil
	}

	eventDays, err := b.extractor.Extract(today, b.lastScheduleDay, availability.StartDate, availability.EndDate, periodicity, scheduledDay)
	if err != nil {
		return domain.EventNotificationDescribers{}, err
	}

	var reminders []reminder.PlannedReminder
	if settings.Reminder != nil {
		reminderDays, err := b.extractor.ExtractForReminders(
			today, b.lastScheduleDay,
			availability.StartDate, availability.EndDate,
			periodicity, scheduledDay,
			settings.Reminder.ActivityIncomplete,
		)
		if err != nil {
			return domain.EventNotificationDescribers{}, err
		}
		reminders = b.planner.Create(eventDays, reminderDays, event, entity, targetSubjectID)
	}

	sameDay := make(map[string]domain.NotificationDescriber, len(reminders))
	for _, r := range reminders {
		if r.IsCatchUp {
			result.Notifications = append(result.Notifications, r.Reminder)
			continue
		}
		sameDay[domain.DayKey(r.EventDay)] = r.Reminder
	}

	for _, day := range eventDays {
		notifications, err := b.processEventDay(day, event, entity, targetSubjectID)
		if err != nil {
			return domain.EventNotificationDescribers{}, err
		}
		result.Notifications = append(result.Notifications, notifications...)

		if r, ok := sameDay[domain.DayKey(day)]; ok {
			result.Notifications = append(result.Notifications, r)
		}
	}

	return result, nil
}

func (b *Builder) processEventDay(day time.Time, event domain.ScheduleEvent, entity domain.Entity, targetSubjectID *string) ([]domain.NotificationDescriber, error) {
	interval := b.utility.AvailabilityInterval(day, event)
	triggers := event.NotificationSettings.Notifications

	out := make([]domain.NotificationDescriber, 0, len(triggers))
	for ordinal, nt := range triggers {
		var triggerAt time.Time
		var crossType *domain.RandomCrossType

		switch t := nt.(type) {
		case domain.FixedTrigger:
			triggerAt = b.utility.TriggerAtForFixed(day, t.At, b.utility.IsNextDay(event, t.At))

		case domain.RandomTrigger:
			ct, shift, ok := b.utility.RandomCrossType(event, t.From, t.To)
			if !ok {
				slog.Warn("random notification window does not fit the activation window",
					slog.String("event_id", event.ID),
					slog.String("from", t.From.String()),
					slog.String("to", t.To.String()),
				)
				continue
			}
			key := domain.NotificationID(event.ID, b.utility.LocalDay(day), targetSubjectID, domain.NotificationKindRegular, ordinal)
			at, ok := b.utility.TriggerAtForRandom(domain.AddDays(day, shift), t.From, t.To, ct, key)
			if !ok {
				slog.Warn("trigger time is not resolved for random notification",
					slog.String("event_id", event.ID),
					slog.String("day", domain.DayKey(day)),
				)
				continue
			}
			triggerAt = at
			crossType = &ct

		default:
			return nil, fmt.Errorf("event %s notification %d: %w: %T", event.ID, ordinal, domain.ErrUnknownTriggerType, nt)
		}

		n := b.utility.CreateNotification(trigger.NotificationParams{
			AppletID:        b.appletID,
			Entity:          entity,
			Event:           event,
			TargetSubjectID: targetSubjectID,
			TriggerAt:       triggerAt,
			EventDay:        day,
			Kind:            domain.NotificationKindRegular,
			Ordinal:         ordinal,
		})
		n.RandomDayCrossType = crossType

		b.utility.MarkIfCompleted(&n, event, interval)
		b.utility.MarkIfOutdated(&n, interval)

		out = append(out, n)
	}

	return out, nil
}
