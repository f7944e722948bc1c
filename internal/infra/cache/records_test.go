package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-notification-scheduling/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestEventRecordToDomain(t *testing.T) {
	loc := time.FixedZone("JST", 9*60*60)

	record := EventRecord{
		ID:       "event-1",
		EntityID: "activity-1",
		Availability: AvailabilityRecord{
			AvailabilityType: "ScheduledAccess",
			PeriodicityType:  "WEEKLY",
			StartDate:        strPtr("2026-03-02"),
			EndDate:          strPtr("2026-04-30"),
			TimeFrom:         strPtr("22:00"),
			TimeTo:           strPtr("02:00:00"),
		},
		NotificationSettings: NotificationSettingsRecord{
			Notifications: []TriggerRecord{
				{TriggerType: "FIXED", At: strPtr("22:30")},
				{TriggerType: "RANDOM", From: strPtr("23:00"), To: strPtr("01:00")},
			},
			Reminder: &ReminderRecord{ActivityIncomplete: 1, ReminderTime: "18:00"},
		},
	}

	event, err := record.toDomain(loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if event.Availability.PeriodicityType != domain.PeriodicityWeekly {
		t.Errorf("periodicity: got %s", event.Availability.PeriodicityType)
	}
	wantStart := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)
	if event.Availability.StartDate == nil || !event.Availability.StartDate.Equal(wantStart) {
		t.Errorf("start date: got %v, want %v", event.Availability.StartDate, wantStart)
	}
	if event.Availability.TimeTo == nil || *event.Availability.TimeTo != domain.MustTimeOfDay(2, 0) {
		t.Errorf("time to: got %v", event.Availability.TimeTo)
	}
	if len(event.NotificationSettings.Notifications) != 2 {
		t.Fatalf("expected 2 triggers, got %d", len(event.NotificationSettings.Notifications))
	}
	if _, ok := event.NotificationSettings.Notifications[1].(domain.RandomTrigger); !ok {
		t.Errorf("second trigger should be random, got %T", event.NotificationSettings.Notifications[1])
	}
	if event.NotificationSettings.Reminder == nil || event.NotificationSettings.Reminder.ReminderTime != domain.MustTimeOfDay(18, 0) {
		t.Errorf("reminder: got %+v", event.NotificationSettings.Reminder)
	}
}

func TestEventRecordToDomainErrors(t *testing.T) {
	base := func() EventRecord {
		return EventRecord{
			ID: "event-1",
			Availability: AvailabilityRecord{
				AvailabilityType: "AlwaysAvailable",
				PeriodicityType:  "DAILY",
			},
		}
	}

	tests := []struct {
		name     string
		mutate   func(r *EventRecord)
		expected error
	}{
		{
			name:     "unknown periodicity",
			mutate:   func(r *EventRecord) { r.Availability.PeriodicityType = "YEARLY" },
			expected: domain.ErrUnknownPeriodicity,
		},
		{
			name:     "unknown availability type",
			mutate:   func(r *EventRecord) { r.Availability.AvailabilityType = "Sometimes" },
			expected: ErrInvalidCacheData,
		},
		{
			name:     "malformed date",
			mutate:   func(r *EventRecord) { r.Availability.StartDate = strPtr("03/02/2026") },
			expected: ErrInvalidCacheData,
		},
		{
			name: "unknown trigger type",
			mutate: func(r *EventRecord) {
				r.NotificationSettings.Notifications = []TriggerRecord{{TriggerType: "GEOFENCE"}}
			},
			expected: domain.ErrUnknownTriggerType,
		},
		{
			name: "fixed trigger without time",
			mutate: func(r *EventRecord) {
				r.NotificationSettings.Notifications = []TriggerRecord{{TriggerType: "FIXED"}}
			},
			expected: ErrInvalidCacheData,
		},
		{
			name: "malformed reminder time",
			mutate: func(r *EventRecord) {
				r.NotificationSettings.Reminder = &ReminderRecord{ReminderTime: "25:00"}
			},
			expected: domain.ErrInvalidTimeOfDay,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := base()
			tt.mutate(&r)

			_, err := r.toDomain(time.UTC)
			if !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestAppletDetailsRecordToDomain(t *testing.T) {
	record := AppletDetailsRecord{
		Activities:    []EntityRecord{{ID: "activity-1", Name: "Mood", IsHidden: true}},
		ActivityFlows: []EntityRecord{{ID: "flow-1", Name: "Evening flow"}},
		Assignments: []AssignmentRecord{
			{ActivityFlowID: "flow-1", RespondentSubject: SubjectRecord{ID: "me"}, TargetSubject: SubjectRecord{ID: "child"}},
		},
	}

	details := record.toDomain("applet-1")

	if details.Activities[0].IsVisible || details.Activities[0].PipelineType != domain.PipelineTypeRegular {
		t.Errorf("unexpected activity %+v", details.Activities[0])
	}
	if !details.ActivityFlows[0].IsVisible || details.ActivityFlows[0].PipelineType != domain.PipelineTypeFlow {
		t.Errorf("unexpected flow %+v", details.ActivityFlows[0])
	}
	if details.Assignments[0].EntityID != "flow-1" {
		t.Errorf("assignment entity: got %q", details.Assignments[0].EntityID)
	}
}
