package domain

import "time"

// StartOfDay returns local midnight of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AddDays moves a day by n calendar days. Unlike Add(24h) it is stable across DST changes.
func AddDays(day time.Time, n int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day()+n, day.Hour(), day.Minute(), day.Second(), day.Nanosecond(), day.Location())
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DayKey formats a day as YYYYMMDD.
func DayKey(day time.Time) string {
	return day.Format("20060102")
}

// Interval is a closed time range.
type Interval struct {
	From time.Time
	To   time.Time
}

func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.From) && !t.After(i.To)
}
