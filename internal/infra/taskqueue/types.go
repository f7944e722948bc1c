package taskqueue

import (
	"fmt"
	"regexp"
	"time"

	"github.com/KasumiMercury/primind-notification-scheduling/internal/domain"
)

var invalidTaskIDChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

type NotificationTask struct {
	ScheduleAt time.Time `json:"-"`

	TaskID          string                  `json:"task_id"`
	NotificationID  string                  `json:"notification_id"`
	Title           string                  `json:"title"`
	Body            string                  `json:"body"`
	Kind            domain.NotificationKind `json:"kind"`
	AppletID        string                  `json:"applet_id,omitempty"`
	EntityID        string                  `json:"entity_id,omitempty"`
	EventID         string                  `json:"event_id,omitempty"`
	TargetSubjectID *string                 `json:"target_subject_id,omitempty"`
	TriggerAt       time.Time               `json:"trigger_at"`
}

// TaskID names the queue task for a notification. The trigger instant is part
// of the name so a moved notification never collides with its old task.
func TaskID(n domain.NotificationDescriber) string {
	raw := fmt.Sprintf("%s-%d", n.ID, n.TriggerAt.Unix())
	return invalidTaskIDChars.ReplaceAllString(raw, "-")
}

func NewNotificationTask(n domain.NotificationDescriber) *NotificationTask {
	return &NotificationTask{
		ScheduleAt:      n.TriggerAt,
		TaskID:          TaskID(n),
		NotificationID:  n.ID,
		Title:           n.Title,
		Body:            n.Body,
		Kind:            n.Kind,
		AppletID:        n.AppletID,
		EntityID:        n.EntityID,
		EventID:         n.EventID,
		TargetSubjectID: n.TargetSubjectID,
		TriggerAt:       n.TriggerAt,
	}
}

type TaskResponse struct {
	Name         string    `json:"name"`
	ScheduleTime time.Time `json:"schedule_time"`
	CreateTime   time.Time `json:"create_time"`
}

type PrimindTaskRequest struct {
	Task PrimindTask `json:"task"`
}

type PrimindTask struct {
	Name         string             `json:"name,omitempty"`
	HTTPRequest  PrimindHTTPRequest `json:"httpRequest"`
	ScheduleTime string             `json:"scheduleTime,omitempty"`
}

type PrimindHTTPRequest struct {
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers,omitempty"`
}

type PrimindTaskResponse struct {
	Name         string `json:"name"`
	ScheduleTime string `json:"scheduleTime"`
	CreateTime   string `json:"createTime"`
}
