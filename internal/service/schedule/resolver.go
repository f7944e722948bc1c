package schedule

import (
	"log/slog"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/KasumiMercury/primind-notification-scheduling/internal/domain"
)

var weekdays = [...]rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// Resolver finds the occurrence an event is currently anchored to: the
// latest occurrence not after now, or the first upcoming one.
type Resolver struct {
	loc *time.Location
}

func NewResolver(loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.Local
	}
	return &Resolver{loc: loc}
}

var _ domain.ScheduledDateResolver = (*Resolver)(nil)

func (r *Resolver) Calculate(event domain.ScheduleEvent, now time.Time) *time.Time {
	now = now.In(r.loc)
	a := event.Availability
	today := domain.StartOfDay(now)

	if a.AvailabilityType == domain.AvailabilityTypeAlwaysAvailable && a.PeriodicityType == domain.PeriodicityAlways {
		return r.at(today, a.TimeFrom)
	}

	var startDay *time.Time
	if a.StartDate != nil {
		d := domain.StartOfDay(a.StartDate.In(r.loc))
		startDay = &d
	}

	if a.PeriodicityType == domain.PeriodicityOnce {
		if startDay == nil {
			return nil
		}
		return r.at(*startDay, a.TimeFrom)
	}

	opt, ok := r.ruleFor(a.PeriodicityType, startDay, today)
	if !ok {
		return nil
	}
	if a.EndDate != nil {
		opt.Until = domain.StartOfDay(a.EndDate.In(r.loc))
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		slog.Warn("failed to build recurrence for event",
			slog.String("event_id", event.ID),
			slog.String("error", err.Error()),
		)
		return nil
	}

	if day := rule.Before(today, true); !day.IsZero() {
		return r.at(day, a.TimeFrom)
	}
	if day := rule.After(today, true); !day.IsZero() {
		return r.at(day, a.TimeFrom)
	}
	return nil
}

// ruleFor anchors recurrences without a start date on today, so a weekly or
// monthly event repeats on today's weekday or day of month.
func (r *Resolver) ruleFor(periodicity domain.PeriodicityType, startDay *time.Time, today time.Time) (rrule.ROption, bool) {
	dtstart := today
	if startDay != nil {
		dtstart = *startDay
	}

	switch periodicity {
	case domain.PeriodicityDaily, domain.PeriodicityAlways:
		return rrule.ROption{Freq: rrule.DAILY, Dtstart: dtstart}, true
	case domain.PeriodicityWeekdays:
		return rrule.ROption{
			Freq:      rrule.WEEKLY,
			Dtstart:   dtstart,
			Byweekday: []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR},
		}, true
	case domain.PeriodicityWeekly:
		return rrule.ROption{
			Freq:      rrule.WEEKLY,
			Dtstart:   dtstart,
			Byweekday: []rrule.Weekday{weekdays[dtstart.Weekday()]},
		}, true
	case domain.PeriodicityMonthly:
		return rrule.ROption{
			Freq:       rrule.MONTHLY,
			Dtstart:    dtstart,
			Bymonthday: []int{dtstart.Day()},
		}, true
	default:
		return rrule.ROption{}, false
	}
}

func (r *Resolver) at(day time.Time, timeFrom *domain.TimeOfDay) *time.Time {
	d := domain.StartOfDay(day.In(r.loc))
	if timeFrom != nil {
		d = timeFrom.On(d)
	}
	return &d
}
