package config

import "errors"

var (
	ErrRedisAddrMissing  = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB    = errors.New("REDIS_DB must be a valid integer")
	ErrInvalidRedisURL   = errors.New("REDIS_URL is not a valid redis URL")
	ErrInvalidTimezone   = errors.New("TIMEZONE must be a valid IANA time zone")
	ErrInvalidRandomSeed = errors.New("RANDOM_SEED must be an unsigned integer")
)
