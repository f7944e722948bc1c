package refreshrecorder

import (
	"context"
	"testing"

	"github.com/KasumiMercury/primind-notification-scheduling/internal/domain"
)

func TestSummarize(t *testing.T) {
	hidden := domain.BreakReasonEntityHidden
	record := domain.RefreshLogRecord{
		RunID:   "run-1",
		Trigger: domain.LogTriggerPeriodic,
		Action:  domain.LogActionReschedule,
		Describers: []domain.AppletNotificationDescribers{
			{
				AppletID:   "applet-1",
				AppletName: "Wellbeing",
				Events: []domain.EventNotificationDescribers{
					{
						EventID: "event-1",
						Notifications: []domain.NotificationDescriber{
							{Kind: domain.NotificationKindRegular},
							{Kind: domain.NotificationKindRegular, IsCompleted: true},
							{Kind: domain.NotificationKindReminder, IsOutdated: true},
						},
					},
					{EventID: "event-2", BreakReason: &hidden},
					domain.NewBrokenEvent("event-3", "", domain.BreakReasonEntityHidden),
				},
			},
		},
	}

	summaries := summarize(record)
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}

	s := summaries[0]
	if s.EventCount != 3 || s.BrokenCount != 2 {
		t.Errorf("events: got %d/%d broken", s.EventCount, s.BrokenCount)
	}
	if s.Regular != 2 || s.Reminders != 1 {
		t.Errorf("kinds: got %d regular, %d reminders", s.Regular, s.Reminders)
	}
	if s.Completed != 1 || s.Outdated != 1 || s.Schedulable != 1 {
		t.Errorf("flags: got completed=%d outdated=%d schedulable=%d", s.Completed, s.Outdated, s.Schedulable)
	}
	if s.BreakReasons[domain.BreakReasonEntityHidden] != 2 {
		t.Errorf("break reasons: got %v", s.BreakReasons)
	}
}

func TestNoopRecorder(t *testing.T) {
	r := NewNoopRecorder()
	if err := r.Record(context.Background(), domain.RefreshLogRecord{}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("REFRESH_RESULTS_DISABLED", "true")
	t.Setenv("INFLUXDB_BUCKET", "")
	t.Setenv("BIGQUERY_TABLE", "custom_table")

	cfg := LoadConfig()

	if !cfg.Disabled {
		t.Error("expected recording to be disabled")
	}
	if cfg.InfluxDBBucket != "refresh_results" {
		t.Errorf("bucket: got %q", cfg.InfluxDBBucket)
	}
	if cfg.BigQueryTable != "custom_table" {
		t.Errorf("table: got %q", cfg.BigQueryTable)
	}
}

func TestNewRecorderDisabled(t *testing.T) {
	r, err := NewRecorder(context.Background(), &Config{Disabled: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := r.(*noopRecorder); !ok {
		t.Errorf("expected noop recorder, got %T", r)
	}
}
