//go:build gcloud

package refreshrecorder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/KasumiMercury/primind-notification-scheduling/internal/domain"
)

type bigQueryRecord struct {
	RecordedAt   time.Time `bigquery:"recorded_at"`
	RunID        string    `bigquery:"run_id"`
	Trigger      string    `bigquery:"trigger"`
	Action       string    `bigquery:"action"`
	AppletID     string    `bigquery:"applet_id"`
	AppletName   string    `bigquery:"applet_name"`
	EventCount   int64     `bigquery:"event_count"`
	BrokenCount  int64     `bigquery:"broken_count"`
	Regular      int64     `bigquery:"regular"`
	Reminders    int64     `bigquery:"reminders"`
	Completed    int64     `bigquery:"completed"`
	Outdated     int64     `bigquery:"outdated"`
	Schedulable  int64     `bigquery:"schedulable"`
	BreakReasons string    `bigquery:"break_reasons"`
}

type bigQueryRecorder struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
	dataset  string
	table    string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.RefreshRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "refresh result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, refresh result recording disabled")
		return NewNoopRecorder(), nil
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, refresh result recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	inserter := client.Dataset(cfg.BigQueryDataset).Table(cfg.BigQueryTable).Inserter()

	slog.InfoContext(ctx, "refresh result recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
		slog.String("table", cfg.BigQueryTable),
	)

	return &bigQueryRecorder{
		client:   client,
		inserter: inserter,
		dataset:  cfg.BigQueryDataset,
		table:    cfg.BigQueryTable,
	}, nil
}

func (r *bigQueryRecorder) Record(ctx context.Context, record domain.RefreshLogRecord) error {
	summaries := summarize(record)
	if len(summaries) == 0 {
		return nil
	}

	rows := make([]*bigQueryRecord, 0, len(summaries))
	for _, s := range summaries {
		reasons, err := json.Marshal(s.BreakReasons)
		if err != nil {
			return fmt.Errorf("marshal break reasons: %w", err)
		}
		rows = append(rows, &bigQueryRecord{
			RecordedAt:   record.RecordedAt,
			RunID:        record.RunID,
			Trigger:      string(record.Trigger),
			Action:       string(record.Action),
			AppletID:     s.AppletID,
			AppletName:   s.AppletName,
			EventCount:   int64(s.EventCount),
			BrokenCount:  int64(s.BrokenCount),
			Regular:      int64(s.Regular),
			Reminders:    int64(s.Reminders),
			Completed:    int64(s.Completed),
			Outdated:     int64(s.Outdated),
			Schedulable:  int64(s.Schedulable),
			BreakReasons: string(reasons),
		})
	}

	if err := r.inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("insert refresh results to BigQuery: %w", err)
	}
	return nil
}

func (r *bigQueryRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
