package handler

import (
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/KasumiMercury/primind-notification-scheduling/internal/domain"
)

const (
	calendarProductID = "-//Primind//Notification Scheduling//EN"
	alarmDuration     = 5 * time.Minute
)

// buildCalendar renders one VEVENT per scheduled notification, starting at its
// trigger instant.
func buildCalendar(notifications []domain.NotificationDescriber, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)

	for _, n := range notifications {
		event := cal.AddEvent(n.ID)
		event.SetDtStampTime(stamp)
		event.SetStartAt(n.TriggerAt)
		event.SetEndAt(n.TriggerAt.Add(alarmDuration))
		event.SetSummary(n.Title)
		if n.Body != "" {
			event.SetDescription(n.Body)
		}
		event.SetProperty(ics.ComponentPropertyCategories, string(n.Kind))
	}

	return cal.Serialize()
}
