//go:build integration

package ratelimit

import (
	"context"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Sternrassler/spess/pkg/clock"
)

// setupRedis starts a Redis container and returns a client
func setupRedis(t *testing.T) (*redis.Client, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	endpoint, err := redisContainer.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("Failed to get Redis endpoint: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("Failed to connect to Redis: %v", err)
	}

	cleanup := func() {
		client.Close()
		redisContainer.Terminate(ctx)
	}
	return client, cleanup
}

func TestTracker_Integration_ConcurrentAcquire(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	cfg := TrackerConfig{Scope: "INTEGRATION", Max: 10, Window: time.Minute}
	ctx := context.Background()

	var admitted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		// one tracker per simulated process
		tracker := NewTracker(redisClient, cfg, clock.New(), logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				wait, err := tracker.Acquire(ctx)
				if err != nil {
					t.Errorf("Acquire() error = %v", err)
					return
				}
				if wait == 0 {
					admitted.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	if got := admitted.Load(); got != 10 {
		t.Errorf("admitted = %d, want 10", got)
	}
}

func TestTracker_Integration_StateRoundTrip(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	tracker := NewTracker(redisClient, DefaultTrackerConfig("INTEGRATION"), clock.New(), logger)
	ctx := context.Background()

	resetAt := time.Now().UTC().Add(30 * time.Second).Truncate(time.Second)
	headers := http.Header{}
	headers.Set(HeaderRemaining, "7")
	headers.Set(HeaderReset, resetAt.Format(time.RFC3339))

	if err := tracker.UpdateFromHeaders(ctx, headers); err != nil {
		t.Fatalf("UpdateFromHeaders() error = %v", err)
	}

	state, err := tracker.GetState(ctx)
	if err != nil {
		t.Fatalf("GetState() error = %v", err)
	}
	if state == nil || state.Remaining != 7 || !state.ResetAt.Equal(resetAt) {
		t.Errorf("unexpected state: %+v", state)
	}

	ttl, err := redisClient.TTL(ctx, RedisKeyState+"INTEGRATION").Result()
	if err != nil {
		t.Fatalf("TTL error = %v", err)
	}
	if ttl <= 0 || ttl > 30*time.Second {
		t.Errorf("state TTL = %v, want within (0, 30s]", ttl)
	}
}
