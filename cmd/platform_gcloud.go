//go:build gcloud

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/KasumiMercury/primind-notification-scheduling/internal/config"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/infra/taskqueue"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/observability"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/observability/logging"
)

const platformName = "gcloud"

func initTaskQueue(ctx context.Context, cfg *config.Config) (taskqueue.TaskQueue, func() error, error) {
	cloudTasksClient, err := taskqueue.NewCloudTasksClient(ctx, taskqueue.CloudTasksConfig{
		ProjectID:  cfg.TaskQueue.GCloudProjectID,
		LocationID: cfg.TaskQueue.GCloudLocationID,
		QueueID:    cfg.TaskQueue.GCloudQueueID,
		TargetURL:  cfg.TaskQueue.GCloudTargetURL,
		MaxRetries: cfg.TaskQueue.MaxRetries,
	})
	if err != nil {
		return nil, nil, err
	}

	slog.Info("task queue initialized",
		slog.String("type", "cloud_tasks"),
		slog.String("project", cfg.TaskQueue.GCloudProjectID),
		slog.String("location", cfg.TaskQueue.GCloudLocationID),
		slog.String("queue", cfg.TaskQueue.GCloudQueueID),
	)

	return cloudTasksClient, cloudTasksClient.Close, nil
}

// observabilityConfig reads the Cloud Run service metadata.
func observabilityConfig(level slog.Level) observability.Config {
	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		projectID = os.Getenv("GCLOUD_PROJECT_ID")
	}

	return observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     envOr("K_SERVICE", defaultServiceName),
			Version:  Version,
			Revision: os.Getenv("K_REVISION"),
		},
		Environment:   logging.Environment(envOr("ENV", string(logging.EnvProd))),
		GCPProjectID:  projectID,
		SamplingRate:  1.0,
		DefaultModule: defaultModule,
		LogLevel:      level,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
