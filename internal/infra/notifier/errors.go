package notifier

import "errors"

var (
	ErrSyncIncomplete          = errors.New("notification sync incomplete")
	ErrInvalidNotificationData = errors.New("invalid notification data")
)
