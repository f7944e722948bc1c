package notifier

import (
	"sort"
	"time"

	"github.com/KasumiMercury/primind-notification-scheduling/internal/domain"
)

const (
	DefaultLimit = 64

	SystemRescheduleNotificationID = "system-reschedule"

	systemRescheduleTitle = "Primind"
	systemRescheduleBody  = "Tap to update the schedule"
)

// pending drops notifications that are not strictly in the future and
// returns the rest ordered by trigger time.
func pending(notifications []domain.NotificationDescriber, now time.Time) []domain.NotificationDescriber {
	out := make([]domain.NotificationDescriber, 0, len(notifications))
	for _, n := range notifications {
		if n.TriggerAt.After(now) {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TriggerAt.Before(out[j].TriggerAt)
	})
	return out
}

// applyLimit keeps the first limit-1 notifications and appends a system
// notification at the last kept trigger time asking the user to reopen the
// app. It returns the number of dropped notifications.
func applyLimit(notifications []domain.NotificationDescriber, limit int) ([]domain.NotificationDescriber, int) {
	if len(notifications) <= limit {
		return notifications, 0
	}

	kept := make([]domain.NotificationDescriber, 0, limit)
	kept = append(kept, notifications[:limit-1]...)
	last := kept[len(kept)-1].TriggerAt

	kept = append(kept, domain.NotificationDescriber{
		ID:        SystemRescheduleNotificationID,
		Title:     systemRescheduleTitle,
		Body:      systemRescheduleBody,
		Kind:      domain.NotificationKindSystemReschedule,
		TriggerAt: last,
		EventDay:  domain.StartOfDay(last),
		FallType:  domain.FallTypeToday,
	})

	return kept, len(notifications) - (limit - 1)
}
