package domain

import "time"

type LogTrigger string

const (
	LogTriggerAppForeground   LogTrigger = "app-foreground"
	LogTriggerEntityCompleted LogTrigger = "entity-completed"
	LogTriggerPeriodic        LogTrigger = "periodic"
	LogTriggerAppletsRefresh  LogTrigger = "applets-refreshed"
	LogTriggerManual          LogTrigger = "manual"
)

func (t LogTrigger) IsValid() bool {
	switch t {
	case LogTriggerAppForeground, LogTriggerEntityCompleted, LogTriggerPeriodic, LogTriggerAppletsRefresh, LogTriggerManual:
		return true
	default:
		return false
	}
}

type LogAction string

const (
	LogActionReschedule LogAction = "reschedule"
)

// RefreshLogRecord is the diagnostic record emitted after every refresh.
type RefreshLogRecord struct {
	RunID      string                         `json:"run_id"`
	Trigger    LogTrigger                     `json:"trigger"`
	Action     LogAction                      `json:"action"`
	Describers []AppletNotificationDescribers `json:"describers"`
	Scheduled  int                            `json:"scheduled"`
	RecordedAt time.Time                      `json:"recorded_at"`
}
