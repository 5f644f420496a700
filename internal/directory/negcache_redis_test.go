package directory

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisNegativeCacheForTest(t *testing.T) (*miniredis.Miniredis, *RedisNegativeCache) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return server, NewRedisNegativeCache(client, "")
}

func TestRedisNegativeCacheRoundTrip(t *testing.T) {
	server, cache := newRedisNegativeCacheForTest(t)
	ctx := context.Background()

	if hit, err := cache.Contains(ctx, "ZZZZZ"); err != nil || hit {
		t.Fatalf("empty cache Contains = %v, %v", hit, err)
	}
	if err := cache.Add(ctx, "ZZZZZ", time.Minute); err != nil {
		t.Fatalf("add: %v", err)
	}
	if hit, err := cache.Contains(ctx, "ZZZZZ"); err != nil || !hit {
		t.Fatalf("Contains after Add = %v, %v", hit, err)
	}

	server.FastForward(2 * time.Minute)
	if hit, _ := cache.Contains(ctx, "ZZZZZ"); hit {
		t.Fatal("expired entry should miss")
	}
}

func TestRedisNegativeCacheRemove(t *testing.T) {
	_, cache := newRedisNegativeCacheForTest(t)
	ctx := context.Background()

	_ = cache.Add(ctx, "ZZZZZ", time.Minute)
	if err := cache.Remove(ctx, "ZZZZZ"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if hit, _ := cache.Contains(ctx, "ZZZZZ"); hit {
		t.Fatal("removed entry should miss")
	}
}
