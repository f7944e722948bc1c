package domain

import "errors"

var (
	ErrCacheEntryNotFound  = errors.New("cache entry not found")
	ErrInvalidTimeOfDay    = errors.New("invalid time of day")
	ErrUnknownPeriodicity  = errors.New("unknown periodicity")
	ErrUnknownTriggerType  = errors.New("unknown notification trigger type")
	ErrRandomWindowEmpty   = errors.New("random notification window has equal bounds")
	ErrEventIDMissing      = errors.New("event id is required")
	ErrNotificationMissing = errors.New("scheduled notification not found")
)
