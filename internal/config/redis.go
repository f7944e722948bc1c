package config

import (
	"crypto/tls"
	"fmt"
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	redisURLEnv      = "REDIS_URL"
	redisAddrEnv     = "REDIS_ADDR"
	redisPasswordEnv = "REDIS_PASSWORD"
	redisDBEnv       = "REDIS_DB"
	redisTLSEnv      = "REDIS_TLS"

	defaultRedisAddr = "localhost:6379"
	defaultRedisDB   = 0
)

// RedisConfig locates the Redis instance holding the query cache, progress
// records and the scheduled notification registry.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TLS      bool
}

// LoadRedisConfig prefers REDIS_URL (redis:// or rediss://) and falls back to
// the individual REDIS_* variables.
func LoadRedisConfig() (*RedisConfig, error) {
	if raw := os.Getenv(redisURLEnv); raw != "" {
		opts, err := redis.ParseURL(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRedisURL, err)
		}
		return &RedisConfig{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
			TLS:      opts.TLSConfig != nil,
		}, nil
	}

	addr := os.Getenv(redisAddrEnv)
	if addr == "" {
		addr = defaultRedisAddr
	}

	db := defaultRedisDB
	if raw := os.Getenv(redisDBEnv); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, ErrInvalidRedisDB
		}
		db = parsed
	}

	return &RedisConfig{
		Addr:     addr,
		Password: os.Getenv(redisPasswordEnv),
		DB:       db,
		TLS:      os.Getenv(redisTLSEnv) == "true",
	}, nil
}

func (c *RedisConfig) Validate() error {
	if c == nil || c.Addr == "" {
		return ErrRedisAddrMissing
	}
	return nil
}

func (c *RedisConfig) Options() *redis.Options {
	opts := &redis.Options{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
	}
	if c.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts
}
