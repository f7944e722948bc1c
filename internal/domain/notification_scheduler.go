package domain

import "context"

//go:generate mockgen -source=notification_scheduler.go -destination=notification_scheduler_mock.go -package=domain

// NotificationScheduler hands notifications to the delivery platform.
// ListScheduled returns entries sorted by trigger time ascending.
type NotificationScheduler interface {
	ScheduleNotifications(ctx context.Context, notifications []NotificationDescriber) error
	CancelAll(ctx context.Context) error
	CancelOne(ctx context.Context, id string) error
	ListScheduled(ctx context.Context) ([]NotificationDescriber, error)
}
