package refresh

import (
	"time"

	"github.com/KasumiMercury/primind-notification-scheduling/internal/domain"
)

const (
	SkipReasonRefreshInProgress        = "refresh in progress"
	SkipReasonAutoCompletionInProgress = "auto completion in progress"
)

type Options struct {
	HorizonDays int
	Location    *time.Location
	// RandomSeed is mixed with each notification ID to place random triggers.
	// Changing it reshuffles every random instant.
	RandomSeed uint64
	Now        func() time.Time
}

type Result struct {
	RunID         string                                `json:"run_id"`
	Trigger       domain.LogTrigger                     `json:"trigger"`
	Skipped       bool                                  `json:"skipped"`
	SkipReason    string                                `json:"skip_reason,omitempty"`
	AppletCount   int                                   `json:"applet_count"`
	BrokenEvents  int                                   `json:"broken_events"`
	Scheduled     int                                   `json:"scheduled"`
	Notifications []domain.NotificationDescriber        `json:"notifications,omitempty"`
	Describers    []domain.AppletNotificationDescribers `json:"-"`
}
