package domain

import (
	"fmt"
	"regexp"
	"time"
)

type NotificationKind string

const (
	NotificationKindRegular          NotificationKind = "regular"
	NotificationKindReminder         NotificationKind = "reminder"
	NotificationKindSystemReschedule NotificationKind = "system-reschedule"
)

type FallType string

const (
	FallTypePast   FallType = "past"
	FallTypeToday  FallType = "today"
	FallTypeFuture FallType = "future"
)

// RandomCrossType tells which calendar days the bounds of a random window are anchored to.
type RandomCrossType string

const (
	RandomCrossBothInCurrentDay    RandomCrossType = "both-in-current-day"
	RandomCrossStartPrevEndCurrent RandomCrossType = "start-prev-end-current"
	RandomCrossStartCurrentEndNext RandomCrossType = "start-current-end-next"
	RandomCrossBothInNextDay       RandomCrossType = "both-in-next-day"
)

type NotificationDescriber struct {
	ID                 string           `json:"id"`
	Title              string           `json:"title"`
	Body               string           `json:"body"`
	AppletID           string           `json:"applet_id"`
	TriggerAt          time.Time        `json:"trigger_at"`
	EntityID           string           `json:"entity_id"`
	EntityType         PipelineType     `json:"entity_type"`
	EventID            string           `json:"event_id"`
	TargetSubjectID    *string          `json:"target_subject_id,omitempty"`
	Kind               NotificationKind `json:"kind"`
	FallType           FallType         `json:"fall_type"`
	IsSpreadInEventSet bool             `json:"is_spread_in_event_set"`
	RandomDayCrossType *RandomCrossType `json:"random_day_cross_type,omitempty"`
	EventDay           time.Time        `json:"event_day"`
	IsCompleted        bool             `json:"is_completed"`
	IsOutdated         bool             `json:"is_outdated"`
}

// IsSchedulable reports whether the notification should reach the scheduler.
func (n *NotificationDescriber) IsSchedulable() bool {
	return !n.IsOutdated && !n.IsCompleted
}

var invalidIDChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// NotificationID derives a stable identifier for one logical occurrence.
// ordinal distinguishes several triggers of the same event on the same day.
func NotificationID(eventID string, eventDay time.Time, targetSubjectID *string, kind NotificationKind, ordinal int) string {
	target := "self"
	if targetSubjectID != nil {
		target = *targetSubjectID
	}
	raw := fmt.Sprintf("%s_%s_%s_%s_%d", eventID, target, DayKey(eventDay), kind, ordinal)
	return invalidIDChars.ReplaceAllString(raw, "-")
}
