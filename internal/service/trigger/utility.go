package trigger

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/KasumiMercury/primind-notification-scheduling/internal/domain"
)

const (
	regularBody  = "Please complete the activity."
	reminderBody = "Just a kind reminder to complete the activity."
)

// Utility computes trigger instants for one build. It is bound to a single
// "now" so every notification of a refresh shares the same reference time.
type Utility struct {
	now      time.Time
	loc      *time.Location
	seed     uint64
	progress domain.CompletionChecker
}

// NewUtility binds a build to now. seed is mixed into every random pick so
// deployments can reshuffle instants without losing per-occurrence stability.
func NewUtility(now time.Time, loc *time.Location, seed uint64, progress domain.CompletionChecker) *Utility {
	if loc == nil {
		loc = time.Local
	}
	return &Utility{
		now:      now.In(loc),
		loc:      loc,
		seed:     seed,
		progress: progress,
	}
}

func (u *Utility) Now() time.Time {
	return u.now
}

func (u *Utility) Location() *time.Location {
	return u.loc
}

func (u *Utility) Today() time.Time {
	return domain.StartOfDay(u.now)
}

func (u *Utility) Yesterday() time.Time {
	return domain.AddDays(u.Today(), -1)
}

// LocalDay converts t to local midnight of its calendar day.
func (u *Utility) LocalDay(t time.Time) time.Time {
	return domain.StartOfDay(t.In(u.loc))
}

// IsSpreadToNextDay reports whether the activation window ends on the following calendar day.
func (u *Utility) IsSpreadToNextDay(event domain.ScheduleEvent) bool {
	a := event.Availability
	if a.AvailabilityType != domain.AvailabilityTypeScheduledAccess || a.TimeFrom == nil || a.TimeTo == nil {
		return false
	}
	return a.TimeTo.Before(*a.TimeFrom)
}

// AvailabilityInterval returns the activation window of the event on day.
// Always-available events cover the whole calendar day.
func (u *Utility) AvailabilityInterval(day time.Time, event domain.ScheduleEvent) domain.Interval {
	d := u.LocalDay(day)
	a := event.Availability
	if a.AvailabilityType != domain.AvailabilityTypeScheduledAccess || a.TimeFrom == nil || a.TimeTo == nil {
		return domain.Interval{From: d, To: domain.AddDays(d, 1)}
	}

	toDay := d
	if u.IsSpreadToNextDay(event) {
		toDay = domain.AddDays(d, 1)
	}
	return domain.Interval{From: a.TimeFrom.On(d), To: a.TimeTo.On(toDay)}
}

// IsNextDay reports whether a fixed time of a spread event falls after midnight.
func (u *Utility) IsNextDay(event domain.ScheduleEvent, at domain.TimeOfDay) bool {
	if !u.IsSpreadToNextDay(event) {
		return false
	}
	return at.Before(*event.Availability.TimeFrom)
}

func (u *Utility) TriggerAtForFixed(day time.Time, at domain.TimeOfDay, isNextDay bool) time.Time {
	d := u.LocalDay(day)
	if isNextDay {
		d = domain.AddDays(d, 1)
	}
	return at.On(d)
}

// RandomCrossType classifies a random window of a spread event against its
// activation window. ok is false when the random window straddles the
// activation bounds.
//
// A window lying entirely after midnight is reported as
// RandomCrossBothInNextDay with shift 1: the caller resolves it on the
// following calendar day, where both bounds fall.
func (u *Utility) RandomCrossType(event domain.ScheduleEvent, from, to domain.TimeOfDay) (domain.RandomCrossType, int, bool) {
	if !u.IsSpreadToNextDay(event) {
		return domain.RandomCrossBothInCurrentDay, 0, true
	}

	windowFrom := *event.Availability.TimeFrom
	windowTo := *event.Availability.TimeTo

	fromInEvening := !from.Before(windowFrom)
	fromInMorning := !windowTo.Before(from)
	toInEvening := !to.Before(windowFrom)
	toInMorning := !windowTo.Before(to)

	switch {
	case fromInEvening && toInEvening && from.Before(to):
		return domain.RandomCrossBothInCurrentDay, 0, true
	case fromInEvening && toInMorning:
		return domain.RandomCrossStartCurrentEndNext, 0, true
	case fromInMorning && toInMorning && from.Before(to):
		return domain.RandomCrossBothInNextDay, 1, true
	default:
		return "", 0, false
	}
}

// TriggerAtForRandom picks a uniformly random minute inside the window,
// bounds included. The pick depends only on key and the utility seed, so the
// same occurrence lands on the same instant on every refresh. ok is false
// when the resolved window is empty or inverted.
func (u *Utility) TriggerAtForRandom(day time.Time, from, to domain.TimeOfDay, crossType domain.RandomCrossType, key string) (time.Time, bool) {
	d := u.LocalDay(day)

	var start, end time.Time
	switch crossType {
	case domain.RandomCrossBothInCurrentDay, domain.RandomCrossBothInNextDay:
		start, end = from.On(d), to.On(d)
	case domain.RandomCrossStartPrevEndCurrent:
		start, end = from.On(domain.AddDays(d, -1)), to.On(d)
	case domain.RandomCrossStartCurrentEndNext:
		start, end = from.On(d), to.On(domain.AddDays(d, 1))
	default:
		return time.Time{}, false
	}

	if !start.Before(end) {
		return time.Time{}, false
	}

	minutes := int(end.Sub(start) / time.Minute)
	return start.Add(time.Duration(u.rngFor(key).IntN(minutes+1)) * time.Minute), true
}

func (u *Utility) rngFor(key string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return rand.New(rand.NewPCG(u.seed, h.Sum64()))
}

// FallType places triggerAt relative to the current local day.
func (u *Utility) FallType(triggerAt time.Time) domain.FallType {
	day := u.LocalDay(triggerAt)
	today := u.Today()
	switch {
	case day.Before(today):
		return domain.FallTypePast
	case day.Equal(today):
		return domain.FallTypeToday
	default:
		return domain.FallTypeFuture
	}
}

// MarkIfOutdated flags a notification whose instant has passed and whose
// activation window has already closed.
func (u *Utility) MarkIfOutdated(n *domain.NotificationDescriber, interval domain.Interval) {
	if n.TriggerAt.Before(u.now) && !interval.To.After(u.now) {
		n.IsOutdated = true
	}
}

// TracksCompletion reports whether completion state applies to the event.
// Always-available repeatable entities can be completed any number of times.
func TracksCompletion(event domain.ScheduleEvent) bool {
	return event.Availability.PeriodicityType != domain.PeriodicityAlways || event.Availability.OneTimeCompletion
}

func (u *Utility) MarkIfCompleted(n *domain.NotificationDescriber, event domain.ScheduleEvent, interval domain.Interval) {
	if !TracksCompletion(event) {
		return
	}
	if u.progress.IsCompletedWithin(n.EntityID, n.EventID, n.TargetSubjectID, interval) {
		n.IsCompleted = true
	}
}

func (u *Utility) IsCompleted(entityID, eventID string, targetSubjectID *string) bool {
	return u.progress.IsCompleted(entityID, eventID, targetSubjectID)
}

func (u *Utility) IsCompletedWithin(entityID, eventID string, targetSubjectID *string, interval domain.Interval) bool {
	return u.progress.IsCompletedWithin(entityID, eventID, targetSubjectID, interval)
}

// EventName is a locale independent diagnostic label.
func (u *Utility) EventName(entityName string, periodicity domain.PeriodicityType, triggers []domain.NotificationTrigger, reminder *domain.ReminderSetting) string {
	parts := []string{entityName, strings.ToLower(periodicity.String())}

	var fixed, random int
	for _, trigger := range triggers {
		switch trigger.(type) {
		case domain.FixedTrigger:
			fixed++
		case domain.RandomTrigger:
			random++
		}
	}
	if fixed > 0 {
		parts = append(parts, fmt.Sprintf("fixed x%d", fixed))
	}
	if random > 0 {
		parts = append(parts, fmt.Sprintf("random x%d", random))
	}
	if reminder != nil {
		parts = append(parts, fmt.Sprintf("reminder +%dd at %s", reminder.ActivityIncomplete, reminder.ReminderTime))
	}
	return strings.Join(parts, " / ")
}

type NotificationParams struct {
	AppletID        string
	Entity          domain.Entity
	Event           domain.ScheduleEvent
	TargetSubjectID *string
	TriggerAt       time.Time
	EventDay        time.Time
	Kind            domain.NotificationKind
	Ordinal         int
}

// CreateNotification assembles a describer with its deterministic ID.
func (u *Utility) CreateNotification(p NotificationParams) domain.NotificationDescriber {
	eventDay := u.LocalDay(p.EventDay)

	body := regularBody
	if p.Kind == domain.NotificationKindReminder {
		body = reminderBody
	} else if p.Entity.Description != "" {
		body = p.Entity.Description
	}

	var target *string
	if p.TargetSubjectID != nil {
		id := *p.TargetSubjectID
		target = &id
	}

	return domain.NotificationDescriber{
		ID:                 domain.NotificationID(p.Event.ID, eventDay, target, p.Kind, p.Ordinal),
		Title:              p.Entity.Name,
		Body:               body,
		AppletID:           p.AppletID,
		TriggerAt:          p.TriggerAt,
		EntityID:           p.Entity.ID,
		EntityType:         p.Entity.PipelineType,
		EventID:            p.Event.ID,
		TargetSubjectID:    target,
		Kind:               p.Kind,
		FallType:           u.FallType(p.TriggerAt),
		IsSpreadInEventSet: u.IsSpreadToNextDay(p.Event),
		EventDay:           eventDay,
	}
}
