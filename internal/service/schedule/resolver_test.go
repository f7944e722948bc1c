package schedule

import (
	"testing"
	"time"

	"github.com/KasumiMercury/primind-notification-scheduling/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time {
	return &t
}

func TestResolverCalculate(t *testing.T) {
	// 2026-03-11 is a Wednesday.
	now := time.Date(2026, 3, 11, 14, 30, 0, 0, time.UTC)
	from := domain.MustTimeOfDay(9, 15)

	tests := []struct {
		name         string
		availability domain.Availability
		expected     *time.Time
	}{
		{
			name: "always available resolves to today",
			availability: domain.Availability{
				AvailabilityType: domain.AvailabilityTypeAlwaysAvailable,
				PeriodicityType:  domain.PeriodicityAlways,
			},
			expected: ptr(date(2026, 3, 11)),
		},
		{
			name: "once uses start date and window start",
			availability: domain.Availability{
				AvailabilityType: domain.AvailabilityTypeScheduledAccess,
				PeriodicityType:  domain.PeriodicityOnce,
				StartDate:        ptr(date(2026, 3, 20)),
				TimeFrom:         &from,
			},
			expected: ptr(date(2026, 3, 20).Add(9*time.Hour + 15*time.Minute)),
		},
		{
			name: "once without start date",
			availability: domain.Availability{
				AvailabilityType: domain.AvailabilityTypeScheduledAccess,
				PeriodicityType:  domain.PeriodicityOnce,
			},
			expected: nil,
		},
		{
			name: "daily started earlier resolves to today",
			availability: domain.Availability{
				AvailabilityType: domain.AvailabilityTypeScheduledAccess,
				PeriodicityType:  domain.PeriodicityDaily,
				StartDate:        ptr(date(2026, 1, 1)),
			},
			expected: ptr(date(2026, 3, 11)),
		},
		{
			name: "daily not yet started resolves to start",
			availability: domain.Availability{
				AvailabilityType: domain.AvailabilityTypeScheduledAccess,
				PeriodicityType:  domain.PeriodicityDaily,
				StartDate:        ptr(date(2026, 4, 2)),
			},
			expected: ptr(date(2026, 4, 2)),
		},
		{
			name: "weekly resolves to latest past occurrence",
			availability: domain.Availability{
				AvailabilityType: domain.AvailabilityTypeScheduledAccess,
				PeriodicityType:  domain.PeriodicityWeekly,
				StartDate:        ptr(date(2026, 2, 2)),
			},
			expected: ptr(date(2026, 3, 9)),
		},
		{
			name: "weekly without start date anchors on today",
			availability: domain.Availability{
				AvailabilityType: domain.AvailabilityTypeScheduledAccess,
				PeriodicityType:  domain.PeriodicityWeekly,
				TimeFrom:         &from,
			},
			expected: ptr(date(2026, 3, 11).Add(9*time.Hour + 15*time.Minute)),
		},
		{
			name: "monthly without start date anchors on today",
			availability: domain.Availability{
				AvailabilityType: domain.AvailabilityTypeScheduledAccess,
				PeriodicityType:  domain.PeriodicityMonthly,
			},
			expected: ptr(date(2026, 3, 11)),
		},
		{
			name: "monthly without start date honours end date",
			availability: domain.Availability{
				AvailabilityType: domain.AvailabilityTypeScheduledAccess,
				PeriodicityType:  domain.PeriodicityMonthly,
				EndDate:          ptr(date(2026, 3, 1)),
			},
			expected: nil,
		},
		{
			name: "monthly on the 31st skips short months",
			availability: domain.Availability{
				AvailabilityType: domain.AvailabilityTypeScheduledAccess,
				PeriodicityType:  domain.PeriodicityMonthly,
				StartDate:        ptr(date(2025, 12, 31)),
			},
			expected: ptr(date(2026, 1, 31)),
		},
		{
			name: "weekdays ended last week",
			availability: domain.Availability{
				AvailabilityType: domain.AvailabilityTypeScheduledAccess,
				PeriodicityType:  domain.PeriodicityWeekdays,
				StartDate:        ptr(date(2026, 2, 1)),
				EndDate:          ptr(date(2026, 3, 8)),
			},
			expected: ptr(date(2026, 3, 6)),
		},
	}

	r := NewResolver(time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Calculate(domain.ScheduleEvent{ID: "event-1", Availability: tt.availability}, now)
			if tt.expected == nil {
				if got != nil {
					t.Fatalf("expected nil, got %v", *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected %v, got nil", *tt.expected)
			}
			if !got.Equal(*tt.expected) {
				t.Errorf("got %v, want %v", *got, *tt.expected)
			}
		})
	}
}
