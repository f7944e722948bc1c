package reminder

import (
	"testing"
	"time"

	"github.com/KasumiMercury/primind-notification-scheduling/internal/domain"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/service/trigger"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func newPlanner(records ...domain.Progress) *Planner {
	u := trigger.NewUtility(testNow, time.UTC, 7, domain.NewProgressSnapshot(records))
	return NewPlanner("applet-1", u)
}

func dailyEvent(reminder *domain.ReminderSetting) domain.ScheduleEvent {
	return domain.ScheduleEvent{
		ID:       "event-1",
		EntityID: "activity-1",
		Availability: domain.Availability{
			AvailabilityType: domain.AvailabilityTypeAlwaysAvailable,
			PeriodicityType:  domain.PeriodicityDaily,
		},
		NotificationSettings: domain.NotificationSettings{Reminder: reminder},
	}
}

var entity = domain.Entity{ID: "activity-1", Name: "Daily check-in", IsVisible: true, PipelineType: domain.PipelineTypeRegular}

func TestCreateWithoutReminderSetting(t *testing.T) {
	p := newPlanner()

	got := p.Create([]time.Time{day(10)}, []time.Time{day(10)}, dailyEvent(nil), entity, nil)
	if len(got) != 0 {
		t.Errorf("expected no reminders, got %d", len(got))
	}
}

func TestCreateTriggerTimes(t *testing.T) {
	setting := &domain.ReminderSetting{ActivityIncomplete: 1, ReminderTime: domain.MustTimeOfDay(18, 0)}
	p := newPlanner()

	active := []time.Time{day(10), day(11), day(12)}
	candidates := []time.Time{day(9), day(10), day(11)}

	got := p.Create(active, candidates, dailyEvent(setting), entity, nil)
	if len(got) != 3 {
		t.Fatalf("expected 3 reminders, got %d", len(got))
	}

	expected := []struct {
		eventDay  time.Time
		triggerAt time.Time
		catchUp   bool
	}{
		{day(9), day(10).Add(18 * time.Hour), true},
		{day(10), day(11).Add(18 * time.Hour), false},
		{day(11), day(12).Add(18 * time.Hour), false},
	}
	for i, e := range expected {
		r := got[i]
		if !r.EventDay.Equal(e.eventDay) {
			t.Errorf("[%d] EventDay: got %v, want %v", i, r.EventDay, e.eventDay)
		}
		if !r.Reminder.TriggerAt.Equal(e.triggerAt) {
			t.Errorf("[%d] TriggerAt: got %v, want %v", i, r.Reminder.TriggerAt, e.triggerAt)
		}
		if r.IsCatchUp != e.catchUp {
			t.Errorf("[%d] IsCatchUp: got %v, want %v", i, r.IsCatchUp, e.catchUp)
		}
		if r.Reminder.Kind != domain.NotificationKindReminder {
			t.Errorf("[%d] Kind: got %q", i, r.Reminder.Kind)
		}
		if r.Reminder.IsOutdated {
			t.Errorf("[%d] unexpected outdated reminder", i)
		}
	}
}

func TestCreateSuppressedByCompletion(t *testing.T) {
	setting := &domain.ReminderSetting{ActivityIncomplete: 1, ReminderTime: domain.MustTimeOfDay(18, 0)}
	completedAt := day(10).Add(10 * time.Hour)
	lateCompletion := day(11).Add(20 * time.Hour)

	tests := []struct {
		name     string
		records  []domain.Progress
		target   *string
		event    domain.ScheduleEvent
		expected int
	}{
		{
			name: "completed on the occurrence day",
			records: []domain.Progress{
				{EntityID: "activity-1", EventID: "event-1", StartedAt: completedAt.Add(-time.Minute), EndedAt: &completedAt},
			},
			event:    dailyEvent(setting),
			expected: 0,
		},
		{
			name: "completion belongs to another subject",
			records: []domain.Progress{
				{EntityID: "activity-1", EventID: "event-1", StartedAt: completedAt.Add(-time.Minute), EndedAt: &completedAt},
			},
			target:   ptr("subject-2"),
			event:    dailyEvent(setting),
			expected: 1,
		},
		{
			name: "completion after the occurrence window",
			records: []domain.Progress{
				{EntityID: "activity-1", EventID: "event-1", StartedAt: lateCompletion.Add(-time.Minute), EndedAt: &lateCompletion},
			},
			event:    dailyEvent(setting),
			expected: 1,
		},
		{
			name: "always periodicity never suppresses",
			records: []domain.Progress{
				{EntityID: "activity-1", EventID: "event-1", StartedAt: completedAt.Add(-time.Minute), EndedAt: &completedAt},
			},
			event: func() domain.ScheduleEvent {
				e := dailyEvent(setting)
				e.Availability.PeriodicityType = domain.PeriodicityAlways
				return e
			}(),
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPlanner(tt.records...)
			got := p.Create([]time.Time{day(10)}, []time.Time{day(10)}, tt.event, entity, tt.target)
			if len(got) != tt.expected {
				t.Errorf("expected %d reminders, got %d", tt.expected, len(got))
			}
		})
	}
}

func TestCreateSameDayReminderAfterWindow(t *testing.T) {
	setting := &domain.ReminderSetting{ActivityIncomplete: 0, ReminderTime: domain.MustTimeOfDay(16, 0)}
	from := domain.MustTimeOfDay(9, 0)
	to := domain.MustTimeOfDay(12, 0)
	event := dailyEvent(setting)
	event.Availability.AvailabilityType = domain.AvailabilityTypeScheduledAccess
	event.Availability.TimeFrom = &from
	event.Availability.TimeTo = &to

	completedAt := day(11).Add(11 * time.Hour)
	p := newPlanner(domain.Progress{EntityID: "activity-1", EventID: "event-1", StartedAt: completedAt.Add(-time.Hour), EndedAt: &completedAt})

	got := p.Create([]time.Time{day(11), day(12)}, []time.Time{day(11), day(12)}, event, entity, nil)
	if len(got) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(got))
	}
	if !got[0].EventDay.Equal(day(12)) {
		t.Errorf("expected reminder for day 12, got %v", got[0].EventDay)
	}
}

func TestCreateMarksPastReminderOutdated(t *testing.T) {
	setting := &domain.ReminderSetting{ActivityIncomplete: 1, ReminderTime: domain.MustTimeOfDay(8, 0)}
	p := newPlanner()

	got := p.Create([]time.Time{day(10)}, []time.Time{day(9)}, dailyEvent(setting), entity, nil)
	if len(got) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(got))
	}
	if !got[0].Reminder.IsOutdated {
		t.Error("reminder firing before now should be outdated")
	}
	if !got[0].IsCatchUp {
		t.Error("reminder for a day before the active days should be a catch-up")
	}
}

func ptr(s string) *string {
	return &s
}
