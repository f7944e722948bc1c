package domain

import "time"

//go:generate mockgen -source=scheduled_date_resolver.go -destination=scheduled_date_resolver_mock.go -package=domain

// ScheduledDateResolver computes the concrete occurrence an event is currently
// scheduled for, or nil when the rule yields none.
type ScheduledDateResolver interface {
	Calculate(event ScheduleEvent, now time.Time) *time.Time
}
