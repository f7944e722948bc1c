package refreshrecorder

import (
	"github.com/KasumiMercury/primind-notification-scheduling/internal/domain"
)

// appletSummary is the per-applet row written by the recorders.
type appletSummary struct {
	AppletID     string
	AppletName   string
	EventCount   int
	BrokenCount  int
	Regular      int
	Reminders    int
	Completed    int
	Outdated     int
	Schedulable  int
	BreakReasons map[domain.BreakReason]int
}

func summarize(record domain.RefreshLogRecord) []appletSummary {
	out := make([]appletSummary, 0, len(record.Describers))
	for _, applet := range record.Describers {
		s := appletSummary{
			AppletID:     applet.AppletID,
			AppletName:   applet.AppletName,
			EventCount:   len(applet.Events),
			BreakReasons: make(map[domain.BreakReason]int),
		}
		for _, event := range applet.Events {
			if event.BreakReason != nil {
				s.BrokenCount++
				s.BreakReasons[*event.BreakReason]++
				continue
			}
			for _, n := range event.Notifications {
				switch n.Kind {
				case domain.NotificationKindRegular:
					s.Regular++
				case domain.NotificationKindReminder:
					s.Reminders++
				}
				if n.IsCompleted {
					s.Completed++
				}
				if n.IsOutdated {
					s.Outdated++
				}
				if n.IsSchedulable() {
					s.Schedulable++
				}
			}
		}
		out = append(out, s)
	}
	return out
}
