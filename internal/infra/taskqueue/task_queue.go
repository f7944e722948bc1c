package taskqueue

import "context"

//go:generate mockgen -source=task_queue.go -destination=mock.go -package=taskqueue

// TaskQueue delivers notification tasks at their schedule time. DeleteTask
// treats an already missing task as success.
type TaskQueue interface {
	RegisterNotification(ctx context.Context, task *NotificationTask) (*TaskResponse, error)
	DeleteTask(ctx context.Context, taskID string) error
}
