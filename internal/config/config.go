package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const envFileEnv = "ENV_FILE"

type Config struct {
	Port      string
	LogLevel  slog.Level
	TaskQueue TaskQueueConfig
	Redis     *RedisConfig
	Schedule  *ScheduleConfig
}

type TaskQueueConfig struct {
	PrimindTasksURL string
	QueueName       string

	GCloudProjectID  string
	GCloudLocationID string
	GCloudQueueID    string
	GCloudTargetURL  string

	MaxRetries int
}

// Load reads the configuration from the environment. Variables from the
// optional .env file (ENV_FILE, default ".env") never override the process
// environment.
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	queueName := os.Getenv("TASK_QUEUE_NAME")
	if queueName == "" {
		queueName = "default"
	}

	maxRetries := 3
	if v := os.Getenv("TASK_QUEUE_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxRetries = parsed
		}
	}

	redisConfig, err := LoadRedisConfig()
	if err != nil {
		return nil, err
	}

	scheduleConfig, err := LoadScheduleConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:     port,
		LogLevel: parseLogLevel(os.Getenv("LOG_LEVEL")),
		TaskQueue: TaskQueueConfig{
			PrimindTasksURL: os.Getenv("PRIMIND_TASKS_URL"),
			QueueName:       queueName,

			GCloudProjectID:  os.Getenv("GCLOUD_PROJECT_ID"),
			GCloudLocationID: os.Getenv("GCLOUD_LOCATION_ID"),
			GCloudQueueID:    os.Getenv("GCLOUD_QUEUE_ID"),
			GCloudTargetURL:  os.Getenv("GCLOUD_TARGET_URL"),

			MaxRetries: maxRetries,
		},
		Redis:    redisConfig,
		Schedule: scheduleConfig,
	}, nil
}

func loadEnvFile() error {
	path := os.Getenv(envFileEnv)
	if path == "" {
		path = ".env"
	}

	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
