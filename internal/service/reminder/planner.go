package reminder

import (
	"time"

	"github.com/KasumiMercury/primind-notification-scheduling/internal/domain"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/service/trigger"
)

type PlannedReminder struct {
	EventDay time.Time
	Reminder domain.NotificationDescriber
	// IsCatchUp marks a reminder whose occurrence day precedes the active days.
	IsCatchUp bool
}

// Planner produces "activity incomplete" reminders, at most one per occurrence day.
type Planner struct {
	appletID string
	utility  *trigger.Utility
}

func NewPlanner(appletID string, utility *trigger.Utility) *Planner {
	return &Planner{
		appletID: appletID,
		utility:  utility,
	}
}

func (p *Planner) Create(
	activeDays, candidateDays []time.Time,
	event domain.ScheduleEvent,
	entity domain.Entity,
	targetSubjectID *string,
) []PlannedReminder {
	setting := event.NotificationSettings.Reminder
	if setting == nil || setting.ActivityIncomplete < 0 {
		return nil
	}

	active := make(map[string]struct{}, len(activeDays))
	for _, day := range activeDays {
		active[domain.DayKey(p.utility.LocalDay(day))] = struct{}{}
	}

	out := make([]PlannedReminder, 0, len(candidateDays))
	for _, candidate := range candidateDays {
		day := p.utility.LocalDay(candidate)
		triggerAt := setting.ReminderTime.On(domain.AddDays(day, setting.ActivityIncomplete))

		if p.completedBefore(day, triggerAt, event, entity, targetSubjectID) {
			continue
		}

		n := p.utility.CreateNotification(trigger.NotificationParams{
			AppletID:        p.appletID,
			Entity:          entity,
			Event:           event,
			TargetSubjectID: targetSubjectID,
			TriggerAt:       triggerAt,
			EventDay:        day,
			Kind:            domain.NotificationKindReminder,
		})
		n.IsOutdated = triggerAt.Before(p.utility.Now())

		_, isActive := active[domain.DayKey(day)]
		out = append(out, PlannedReminder{
			EventDay:  day,
			Reminder:  n,
			IsCatchUp: !isActive,
		})
	}
	return out
}

// completedBefore reports whether the occurrence of day was completed inside
// its activation window and no later than the reminder instant.
func (p *Planner) completedBefore(day, triggerAt time.Time, event domain.ScheduleEvent, entity domain.Entity, targetSubjectID *string) bool {
	if !trigger.TracksCompletion(event) {
		return false
	}

	interval := p.utility.AvailabilityInterval(day, event)
	if triggerAt.Before(interval.To) {
		interval.To = triggerAt
	}
	return p.utility.IsCompletedWithin(entity.ID, event.ID, targetSubjectID, interval)
}
