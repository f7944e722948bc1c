package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	timezoneEnv          = "TIMEZONE"
	horizonDaysEnv       = "SCHEDULE_HORIZON_DAYS"
	notificationLimitEnv = "NOTIFICATION_LIMIT"
	refreshCronEnv       = "REFRESH_CRON"
	randomSeedEnv        = "RANDOM_SEED"

	defaultHorizonDays       = 14
	defaultNotificationLimit = 64
	defaultRefreshCron       = "*/15 * * * *"
)

type ScheduleConfig struct {
	Location          *time.Location
	HorizonDays       int
	NotificationLimit int
	// RefreshCron is empty when periodic refresh is disabled.
	RefreshCron string
	// RandomSeed reshuffles random trigger instants when changed.
	RandomSeed uint64
}

func LoadScheduleConfig() (*ScheduleConfig, error) {
	loc := time.Local
	if name := os.Getenv(timezoneEnv); name != "" {
		parsed, err := time.LoadLocation(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
		}
		loc = parsed
	}

	horizon := defaultHorizonDays
	if v := os.Getenv(horizonDaysEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			horizon = parsed
		}
	}

	limit := defaultNotificationLimit
	if v := os.Getenv(notificationLimitEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 2 {
			limit = parsed
		}
	}

	refreshCron := defaultRefreshCron
	if v, ok := os.LookupEnv(refreshCronEnv); ok {
		refreshCron = v
	}

	var seed uint64
	if v := os.Getenv(randomSeedEnv); v != "" {
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, ErrInvalidRandomSeed
		}
		seed = parsed
	}

	return &ScheduleConfig{
		Location:          loc,
		HorizonDays:       horizon,
		NotificationLimit: limit,
		RefreshCron:       refreshCron,
		RandomSeed:        seed,
	}, nil
}
