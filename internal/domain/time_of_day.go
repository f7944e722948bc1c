package domain

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %02d:%02d", ErrInvalidTimeOfDay, hour, minute)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

func MustTimeOfDay(hour, minute int) TimeOfDay {
	t, err := NewTimeOfDay(hour, minute)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseTimeOfDay accepts "HH:MM" and "HH:MM:SS"; seconds are dropped.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			return TimeOfDay{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
}

func (t TimeOfDay) TotalMinutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.TotalMinutes() < other.TotalMinutes()
}

func (t TimeOfDay) Equal(other TimeOfDay) bool {
	return t.TotalMinutes() == other.TotalMinutes()
}

// On places the time on the calendar day of day, in day's location.
func (t TimeOfDay) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, 0, 0, day.Location())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}
