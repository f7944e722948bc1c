package domain

type TriggerType string

const (
	TriggerTypeFixed  TriggerType = "FIXED"
	TriggerTypeRandom TriggerType = "RANDOM"
)

// NotificationTrigger is implemented only by FixedTrigger and RandomTrigger.
// Consumers switch over the concrete type and must fail on anything else.
type NotificationTrigger interface {
	Type() TriggerType
	Validate() error
	isNotificationTrigger()
}

type FixedTrigger struct {
	At TimeOfDay
}

func (FixedTrigger) Type() TriggerType { return TriggerTypeFixed }

func (FixedTrigger) Validate() error { return nil }

func (FixedTrigger) isNotificationTrigger() {}

type RandomTrigger struct {
	From TimeOfDay
	To   TimeOfDay
}

func (RandomTrigger) Type() TriggerType { return TriggerTypeRandom }

func (r RandomTrigger) Validate() error {
	if r.From.Equal(r.To) {
		return ErrRandomWindowEmpty
	}
	return nil
}

func (RandomTrigger) isNotificationTrigger() {}
