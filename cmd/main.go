package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-notification-scheduling/internal/config"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/handler"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/health"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/infra/cache"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/infra/notifier"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/infra/progress"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/infra/refreshrecorder"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/mutex"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/observability"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/observability/logging"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/observability/metrics"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/observability/middleware"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/periodic"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/service/refresh"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/service/schedule"
)

// Version is set via ldflags at build time
var Version = "dev"

const (
	defaultServiceName     = "scheduling"
	defaultModule          = logging.Module("notification-scheduling")
	periodicRefreshTimeout = 2 * time.Minute
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	obs, err := observability.Init(ctx, observabilityConfig(cfg.LogLevel))
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	if err := cfg.Redis.Validate(); err != nil {
		slog.Error("redis configuration error", slog.String("error", err.Error()))
		return 1
	}

	if err := cfg.TaskQueue.Validate(); err != nil {
		slog.Error("task queue configuration error", slog.String("error", err.Error()))
		return 1
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	refreshMetrics, err := metrics.NewRefreshMetrics()
	if err != nil {
		slog.Error("failed to initialize refresh metrics", slog.String("error", err.Error()))
		return 1
	}

	schedulerMetrics, err := metrics.NewSchedulerMetrics()
	if err != nil {
		slog.Error("failed to initialize scheduler metrics", slog.String("error", err.Error()))
		return 1
	}

	// InfluxDB for local, BigQuery for gcloud
	recorder, err := refreshrecorder.NewRecorder(ctx, refreshrecorder.LoadConfig())
	if err != nil {
		slog.Error("failed to initialize refresh result recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			slog.Warn("failed to close refresh result recorder", slog.String("error", err.Error()))
		}
	}()

	taskQueue, cleanup, err := initTaskQueue(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize task queue", slog.String("error", err.Error()))
		return 1
	}
	if cleanup != nil {
		defer func() {
			if err := cleanup(); err != nil {
				slog.Error("task queue cleanup error", slog.String("error", err.Error()))
			}
		}()
	}

	redisClient := redis.NewClient(cfg.Redis.Options())

	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		slog.Error("failed to instrument redis tracing",
			slog.String("event", "redis.otel.tracing.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		slog.Error("failed to instrument redis metrics",
			slog.String("event", "redis.otel.metrics.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Warn("failed to close redis client", slog.String("error", err.Error()))
		}
	}()

	slog.Info("redis connected",
		slog.String("addr", cfg.Redis.Addr),
	)

	loc := cfg.Schedule.Location

	cacheStore := cache.NewStore(redisClient, loc)
	progressRepo := progress.NewProgressRepository(redisClient)
	scheduler := notifier.NewNotifier(redisClient, taskQueue,
		notifier.WithLimit(cfg.Schedule.NotificationLimit),
		notifier.WithMetrics(schedulerMetrics),
	)

	notificationGate := mutex.NewGate("notification")
	autoCompletionGate := mutex.NewGate("auto-completion")

	refreshService := refresh.NewService(
		cacheStore,
		progressRepo,
		schedule.NewResolver(loc),
		scheduler,
		recorder,
		notificationGate,
		autoCompletionGate,
		refreshMetrics,
		refresh.Options{
			HorizonDays: cfg.Schedule.HorizonDays,
			Location:    loc,
			RandomSeed:  cfg.Schedule.RandomSeed,
		},
	)

	runner, err := periodic.NewRunner(cfg.Schedule.RefreshCron, loc, refreshService, periodicRefreshTimeout)
	if err != nil {
		slog.Error("failed to configure periodic refresh", slog.String("error", err.Error()))
		return 1
	}

	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:   []string{"/health", "/health/live", "/health/ready"},
		Module:      defaultModule,
		TracerName:  "github.com/KasumiMercury/primind-notification-scheduling/internal/observability/middleware",
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	healthChecker := health.NewChecker(redisClient, Version)
	healthChecker.AddProbe("scheduled-registry", func(ctx context.Context) error {
		_, err := scheduler.ListScheduled(ctx)
		return err
	})
	healthChecker.Register(r)
	r.GET("/health", healthChecker.ReadyHandler())

	handler.RegisterRoutes(r, handler.Handlers{
		Notification: handler.NewNotificationHandler(refreshService, scheduler),
		Progress:     handler.NewProgressHandler(progressRepo, autoCompletionGate, refreshService),
		Applet:       handler.NewAppletHandler(cacheStore, refreshService),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.String("platform", platformName),
			slog.String("timezone", loc.String()),
			slog.Int("horizon_days", cfg.Schedule.HorizonDays),
			slog.Int("notification_limit", cfg.Schedule.NotificationLimit),
			slog.String("refresh_cron", cfg.Schedule.RefreshCron),
		)
		serverErr <- srv.ListenAndServe()
	}()

	runner.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := runner.Stop(shutdownCtx); err != nil {
			slog.Warn("periodic refresh did not stop in time", slog.String("error", err.Error()))
		}

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		_ = runner.Stop(stopCtx)

		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}
