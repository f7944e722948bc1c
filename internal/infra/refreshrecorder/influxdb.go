//go:build !gcloud

package refreshrecorder

import (
	"context"
	"fmt"
	"log/slog"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/KasumiMercury/primind-notification-scheduling/internal/domain"
)

const (
	refreshMeasurement     = "notification_refresh"
	breakReasonMeasurement = "notification_break_reason"
)

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
	org      string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.RefreshRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "refresh result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, refresh result recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)
	writeAPI := client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket)

	slog.InfoContext(ctx, "refresh result recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: writeAPI,
		bucket:   cfg.InfluxDBBucket,
		org:      cfg.InfluxDBOrg,
	}, nil
}

func (r *influxDBRecorder) Record(ctx context.Context, record domain.RefreshLogRecord) error {
	points := buildPoints(record)
	if len(points) == 0 {
		return nil
	}

	if err := r.writeAPI.WritePoint(ctx, points...); err != nil {
		return fmt.Errorf("write refresh result to InfluxDB: %w", err)
	}
	return nil
}

func buildPoints(record domain.RefreshLogRecord) []*write.Point {
	points := make([]*write.Point, 0, len(record.Describers))
	for _, s := range summarize(record) {
		tags := map[string]string{
			"run_id":    record.RunID,
			"trigger":   string(record.Trigger),
			"action":    string(record.Action),
			"applet_id": s.AppletID,
		}

		points = append(points, influxdb2.NewPoint(
			refreshMeasurement,
			tags,
			map[string]any{
				"applet_name":  s.AppletName,
				"event_count":  s.EventCount,
				"broken_count": s.BrokenCount,
				"regular":      s.Regular,
				"reminders":    s.Reminders,
				"completed":    s.Completed,
				"outdated":     s.Outdated,
				"schedulable":  s.Schedulable,
			},
			record.RecordedAt,
		))

		for reason, count := range s.BreakReasons {
			points = append(points, influxdb2.NewPoint(
				breakReasonMeasurement,
				map[string]string{
					"run_id":    record.RunID,
					"applet_id": s.AppletID,
					"reason":    reason.String(),
				},
				map[string]any{"count": count},
				record.RecordedAt,
			))
		}
	}
	return points
}

func (r *influxDBRecorder) Close() error {
	if r.client != nil {
		r.client.Close()
	}
	return nil
}
