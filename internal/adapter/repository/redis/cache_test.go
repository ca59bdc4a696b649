package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCache(client), s
}

func TestCacheSetGet(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "statement:t:a", `{"accountId":"a"}`, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := cache.Get(ctx, "statement:t:a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != `{"accountId":"a"}` {
		t.Errorf("got %q", got)
	}
}

func TestCacheMissIsNotAnError(t *testing.T) {
	cache, _ := newTestCache(t)

	got, err := cache.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("miss must not error, got %v", err)
	}
	if got != "" {
		t.Errorf("miss returned %q", got)
	}
}

func TestCacheDelete(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := cache.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := cache.Get(ctx, "k")
	if err != nil || got != "" {
		t.Errorf("deleted key returned %q, %v", got, err)
	}
}

func TestCacheKeysArePrefixed(t *testing.T) {
	cache, s := newTestCache(t)

	if err := cache.Set(context.Background(), "k", "v", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !s.Exists("ledger:k") {
		t.Error("stored key is not namespaced under ledger:")
	}
}
