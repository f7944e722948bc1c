//go:build !gcloud

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

const platformName = "local"

// initTaskQueue delivers notifications through Primind Tasks. Point
// PRIMIND_TASKS_URL at loadtest/cmd/stub to run without the real queue.
func initTaskQueue(_ context.Context, cfg *config.Config) (taskqueue.TaskQueue, func() error, error) {
	tq := taskqueue.NewPrimindTasksClient(
		cfg.TaskQueue.PrimindTasksURL,
		cfg.TaskQueue.QueueName,
		cfg.TaskQueue.MaxRetries,
	)

	slog.Info("task queue initialized",
		slog.String("type", "primind_tasks"),
		slog.String("url", cfg.TaskQueue.PrimindTasksURL),
		slog.String("queue", cfg.TaskQueue.QueueName),
	)

	return tq, nil, nil
}

func observabilityConfig(level slog.Level) observability.Config {
	return observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:    envOr("SERVICE_NAME", defaultServiceName),
			Version: Version,
		},
		Environment:   logging.Environment(envOr("ENV", string(logging.EnvDev))),
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
