package domain

type BreakReason string

const (
	BreakReasonScheduledAtIsEmpty           BreakReason = "scheduled-at-is-empty"
	BreakReasonScheduledDayBeforeYesterday  BreakReason = "scheduled-day-before-yesterday"
	BreakReasonEventWindowEnded             BreakReason = "event-window-ended"
	BreakReasonEventWindowNotYetOpen        BreakReason = "event-window-not-yet-open"
	BreakReasonEntityHidden                 BreakReason = "entity-hidden"
	BreakReasonOneTimeCompletionAlreadyDone BreakReason = "one-time-completion-already-done"
)

func (r BreakReason) String() string {
	return string(r)
}

type EventNotificationDescribers struct {
	EventID       string                  `json:"event_id"`
	EventName     string                  `json:"event_name"`
	Notifications []NotificationDescriber `json:"notifications"`
	BreakReason   *BreakReason            `json:"break_reason,omitempty"`
}

func NewBrokenEvent(eventID, eventName string, reason BreakReason) EventNotificationDescribers {
	return EventNotificationDescribers{
		EventID:       eventID,
		EventName:     eventName,
		Notifications: []NotificationDescriber{},
		BreakReason:   &reason,
	}
}

type AppletNotificationDescribers struct {
	AppletID   string                        `json:"applet_id"`
	AppletName string                        `json:"applet_name"`
	Events     []EventNotificationDescribers `json:"events"`
}

// Schedulable flattens the applet result, dropping broken events and
// notifications that are outdated or already completed.
func (a AppletNotificationDescribers) Schedulable() []NotificationDescriber {
	out := make([]NotificationDescriber, 0)
	for _, event := range a.Events {
		if event.BreakReason != nil {
			continue
		}
		for _, n := range event.Notifications {
			if n.IsSchedulable() {
				out = append(out, n)
			}
		}
	}
	return out
}
