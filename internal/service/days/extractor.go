package days

import (
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/KasumiMercury/primind-notification-scheduling/internal/domain"
)

var ErrInvalidRange = errors.New("invalid day range")

var weekdays = [...]rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// Extractor expands a periodicity rule into the calendar days on which an
// event is active. All returned days are local midnights in the location of
// horizonStart.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the active days of the rule inside the intersection of
// [horizonStart, horizonEnd] and [windowFrom, windowTo]. A nil window bound is
// unbounded.
func (e *Extractor) Extract(
	horizonStart, horizonEnd time.Time,
	windowFrom, windowTo *time.Time,
	periodicity domain.PeriodicityType,
	anchorDay time.Time,
) ([]time.Time, error) {
	loc := horizonStart.Location()
	from, to, ok := intersect(horizonStart, horizonEnd, windowFrom, windowTo)
	if !ok {
		return []time.Time{}, nil
	}
	anchor := domain.StartOfDay(anchorDay.In(loc))

	if periodicity == domain.PeriodicityOnce {
		if anchor.Before(from) || anchor.After(to) {
			return []time.Time{}, nil
		}
		return []time.Time{anchor}, nil
	}

	opt, err := ruleFor(periodicity, anchor)
	if err != nil {
		return nil, err
	}
	opt.Dtstart = from
	opt.Until = to

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("build recurrence for %s: %w", periodicity, err)
	}

	occurrences := rule.Between(from, to, true)
	out := make([]time.Time, 0, len(occurrences))
	for _, occ := range occurrences {
		day := domain.StartOfDay(occ.In(loc))
		if len(out) > 0 && out[len(out)-1].Equal(day) {
			continue
		}
		out = append(out, day)
	}
	return out, nil
}

// ExtractForReminders returns the occurrence days whose reminder, fired
// incompleteDays later, still lands inside the horizon. Days before the
// availability window opens are excluded by the window intersection.
func (e *Extractor) ExtractForReminders(
	horizonStart, horizonEnd time.Time,
	windowFrom, windowTo *time.Time,
	periodicity domain.PeriodicityType,
	anchorDay time.Time,
	incompleteDays int,
) ([]time.Time, error) {
	if incompleteDays < 0 {
		return nil, fmt.Errorf("%w: negative reminder offset %d", ErrInvalidRange, incompleteDays)
	}
	return e.Extract(
		domain.AddDays(horizonStart, -incompleteDays),
		domain.AddDays(horizonEnd, -incompleteDays),
		windowFrom, windowTo,
		periodicity,
		anchorDay,
	)
}

func intersect(horizonStart, horizonEnd time.Time, windowFrom, windowTo *time.Time) (time.Time, time.Time, bool) {
	loc := horizonStart.Location()
	from := domain.StartOfDay(horizonStart)
	to := domain.StartOfDay(horizonEnd.In(loc))

	if windowFrom != nil {
		if wf := domain.StartOfDay(windowFrom.In(loc)); wf.After(from) {
			from = wf
		}
	}
	if windowTo != nil {
		if wt := domain.StartOfDay(windowTo.In(loc)); wt.Before(to) {
			to = wt
		}
	}
	return from, to, !from.After(to)
}

func ruleFor(periodicity domain.PeriodicityType, anchor time.Time) (rrule.ROption, error) {
	switch periodicity {
	case domain.PeriodicityDaily, domain.PeriodicityAlways:
		return rrule.ROption{Freq: rrule.DAILY}, nil
	case domain.PeriodicityWeekly:
		return rrule.ROption{
			Freq:      rrule.WEEKLY,
			Byweekday: []rrule.Weekday{weekdays[anchor.Weekday()]},
		}, nil
	case domain.PeriodicityWeekdays:
		return rrule.ROption{
			Freq:      rrule.WEEKLY,
			Byweekday: []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR},
		}, nil
	case domain.PeriodicityMonthly:
		// BYMONTHDAY drops months without the anchor day instead of clamping.
		return rrule.ROption{
			Freq:       rrule.MONTHLY,
			Bymonthday: []int{anchor.Day()},
		}, nil
	default:
		return rrule.ROption{}, fmt.Errorf("%w: %q", domain.ErrUnknownPeriodicity, periodicity)
	}
}
