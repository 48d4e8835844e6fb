package cache

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Sternrassler/spess/pkg/clock"
)

// setupTestRedis returns an in-memory redis and a client connected to it.
func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return mr, client
}

func TestNewManager(t *testing.T) {
	_, client := setupTestRedis(t)

	manager := NewManager(client, 0, nil)
	if manager.redis != client {
		t.Error("Manager redis client not set correctly")
	}
	if manager.TTL() != DefaultTTL {
		t.Errorf("TTL() = %v, want %v", manager.TTL(), DefaultTTL)
	}
}

func TestNewManager_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewManager should panic with nil redis client")
		}
	}()
	NewManager(nil, time.Minute, nil)
}

func TestManager_SetAndGet(t *testing.T) {
	mr, client := setupTestRedis(t)
	clk := clock.NewMock(now)
	manager := NewManager(client, time.Minute, clk)
	ctx := context.Background()

	key := Key{Path: "/systems/X1-DF55"}
	entry := NewEntry(http.StatusOK, http.Header{"Content-Type": []string{"application/json"}},
		[]byte(`{"data":{"symbol":"X1-DF55"}}`), clk.Now(), manager.TTL())

	if err := manager.Set(ctx, key, entry); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if ttl := mr.TTL(key.String()); ttl != time.Minute {
		t.Errorf("redis TTL = %v, want 1m", ttl)
	}

	got, err := manager.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got.Data) != string(entry.Data) {
		t.Errorf("Data = %s, want %s", got.Data, entry.Data)
	}
	if got.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", got.StatusCode)
	}
	if got.Headers.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type header not preserved: %v", got.Headers)
	}
}

func TestManager_GetMiss(t *testing.T) {
	_, client := setupTestRedis(t)
	manager := NewManager(client, time.Minute, clock.NewMock(now))

	_, err := manager.Get(context.Background(), Key{Path: "/systems/NOPE"})
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() error = %v, want ErrCacheMiss", err)
	}
}

func TestManager_GetExpired(t *testing.T) {
	mr, client := setupTestRedis(t)
	clk := clock.NewMock(now)
	manager := NewManager(client, time.Minute, clk)
	ctx := context.Background()

	key := Key{Path: "/systems/X1-DF55"}
	if err := manager.Set(ctx, key, NewEntry(http.StatusOK, http.Header{}, []byte(`{}`), now, time.Minute)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// redis still holds the key, but the clock says it is stale
	clk.Advance(2 * time.Minute)

	if _, err := manager.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() error = %v, want ErrCacheMiss", err)
	}
	if mr.Exists(key.String()) {
		t.Error("expired entry should be deleted")
	}
}

func TestManager_SetExpiredIsDropped(t *testing.T) {
	mr, client := setupTestRedis(t)
	manager := NewManager(client, time.Minute, clock.NewMock(now))

	key := Key{Path: "/systems"}
	entry := &Entry{Data: []byte(`{}`), Expires: now.Add(-time.Second)}
	if err := manager.Set(context.Background(), key, entry); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if mr.Exists(key.String()) {
		t.Error("expired entry should not be stored")
	}
}

func TestManager_SetNil(t *testing.T) {
	_, client := setupTestRedis(t)
	manager := NewManager(client, time.Minute, nil)

	if err := manager.Set(context.Background(), Key{Path: "/x"}, nil); err == nil {
		t.Error("Set(nil) should fail")
	}
}

func TestManager_GetCorrupt(t *testing.T) {
	mr, client := setupTestRedis(t)
	manager := NewManager(client, time.Minute, nil)

	key := Key{Path: "/systems"}
	mr.Set(key.String(), "{not json")

	if _, err := manager.Get(context.Background(), key); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("Get() error = %v, want ErrInvalidEntry", err)
	}
}

func TestManager_Clear(t *testing.T) {
	mr, client := setupTestRedis(t)
	manager := NewManager(client, time.Minute, clock.NewMock(now))
	ctx := context.Background()

	for _, path := range []string{"/systems", "/systems/A", "/systems/B"} {
		if err := manager.Set(ctx, Key{Path: path}, NewEntry(http.StatusOK, http.Header{}, []byte(`{}`), now, 0)); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}
	mr.Set("unrelated", "keep")

	deleted, err := manager.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if deleted != 3 {
		t.Errorf("Clear() deleted %d, want 3", deleted)
	}
	if !mr.Exists("unrelated") {
		t.Error("Clear() removed a key outside the cache prefix")
	}
}
