package domain

import (
	"fmt"
	"time"
)

type AvailabilityType string

const (
	AvailabilityTypeAlwaysAvailable AvailabilityType = "AlwaysAvailable"
	AvailabilityTypeScheduledAccess AvailabilityType = "ScheduledAccess"
)

type PeriodicityType string

const (
	PeriodicityOnce     PeriodicityType = "ONCE"
	PeriodicityDaily    PeriodicityType = "DAILY"
	PeriodicityWeekly   PeriodicityType = "WEEKLY"
	PeriodicityWeekdays PeriodicityType = "WEEKDAYS"
	PeriodicityMonthly  PeriodicityType = "MONTHLY"
	PeriodicityAlways   PeriodicityType = "ALWAYS"
)

func (p PeriodicityType) String() string {
	return string(p)
}

// IsRecurring reports whether the periodicity repeats on a calendar rule.
// Always is excluded: it has no window-based break rules.
func (p PeriodicityType) IsRecurring() bool {
	switch p {
	case PeriodicityDaily, PeriodicityWeekly, PeriodicityWeekdays, PeriodicityMonthly:
		return true
	default:
		return false
	}
}

func ParsePeriodicity(s string) (PeriodicityType, error) {
	p := PeriodicityType(s)
	switch p {
	case PeriodicityOnce, PeriodicityDaily, PeriodicityWeekly, PeriodicityWeekdays, PeriodicityMonthly, PeriodicityAlways:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPeriodicity, s)
	}
}

type Availability struct {
	AvailabilityType  AvailabilityType
	PeriodicityType   PeriodicityType
	StartDate         *time.Time
	EndDate           *time.Time
	TimeFrom          *TimeOfDay
	TimeTo            *TimeOfDay
	OneTimeCompletion bool
}

type ReminderSetting struct {
	ActivityIncomplete int
	ReminderTime       TimeOfDay
}

type NotificationSettings struct {
	Notifications []NotificationTrigger
	Reminder      *ReminderSetting
}

type ScheduleEvent struct {
	ID                   string
	EntityID             string
	ScheduledAt          *time.Time
	Availability         Availability
	NotificationSettings NotificationSettings
}

// WithScheduledAt returns a copy of the event carrying the resolved occurrence.
func (e ScheduleEvent) WithScheduledAt(scheduledAt *time.Time) ScheduleEvent {
	out := e
	if scheduledAt != nil {
		t := *scheduledAt
		out.ScheduledAt = &t
	} else {
		out.ScheduledAt = nil
	}
	out.NotificationSettings.Notifications = append([]NotificationTrigger(nil), e.NotificationSettings.Notifications...)
	return out
}

func (e ScheduleEvent) Validate() error {
	if e.ID == "" {
		return ErrEventIDMissing
	}
	if _, err := ParsePeriodicity(string(e.Availability.PeriodicityType)); err != nil {
		return fmt.Errorf("event %s: %w", e.ID, err)
	}
	for i, n := range e.NotificationSettings.Notifications {
		if n == nil {
			return fmt.Errorf("event %s notification %d: %w", e.ID, i, ErrUnknownTriggerType)
		}
		if err := n.Validate(); err != nil {
			return fmt.Errorf("event %s notification %d: %w", e.ID, i, err)
		}
	}
	return nil
}
