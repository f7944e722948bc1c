package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	redismodule "github.com/testcontainers/testcontainers-go/modules/redis"
)

const (
	// TestRedisAddrEnv points integration tests at an existing Redis instead
	// of a container. The selected database is flushed before and after use.
	TestRedisAddrEnv = "TEST_REDIS_ADDR"
	testRedisImage   = "redis:8-alpine"
)

// SetupRedisContainer returns a client for an empty Redis. Tests are skipped
// in -short mode and when no Redis can be started.
func SetupRedisContainer(ctx context.Context, t *testing.T) (*redis.Client, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping redis integration test in short mode")
	}

	if addr := os.Getenv(TestRedisAddrEnv); addr != "" {
		return setupExternalRedis(ctx, t, addr)
	}

	defer func() {
		if r := recover(); r != nil {
			t.Skipf("failed to start redis container: %v", r)
		}
	}()

	container, err := redismodule.Run(ctx, testRedisImage)
	if err != nil {
		t.Skipf("failed to start redis container: %v", err)
	}

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Skipf("failed to get redis endpoint: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: endpoint,
	})

	cleanup := func() {
		if err := client.Close(); err != nil {
			t.Logf("failed to close redis client: %v", err)
		}

		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate redis container: %v", err)
		}
	}

	return client, cleanup
}

func setupExternalRedis(ctx context.Context, t *testing.T, addr string) (*redis.Client, func()) {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis at %s unavailable: %v", addr, err)
	}
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("failed to flush redis: %v", err)
	}

	cleanup := func() {
		if err := client.FlushDB(ctx).Err(); err != nil {
			t.Logf("failed to flush redis: %v", err)
		}
		if err := client.Close(); err != nil {
			t.Logf("failed to close redis client: %v", err)
		}
	}

	return client, cleanup
}
