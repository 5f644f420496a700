package session

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"cardpark/internal/domain"
)

func newRedisStoreForTest(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return server, NewRedisStore(client, "")
}

func TestRedisStoreRoundTrip(t *testing.T) {
	_, store := newRedisStoreForTest(t)
	ctx := context.Background()

	sess := domain.NewSession("dev-1", time.Now(), time.Hour)
	sess.OwnedCode = "QW3RT"
	sess.DisplayName = "Ada Lovelace"
	sess.StarredCodes = []string{"AAAAA", "BBBBB"}
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load(ctx, "dev-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.OwnedCode != "QW3RT" || got.DisplayName != "Ada Lovelace" {
		t.Fatalf("loaded session = %+v", got)
	}
	if !got.Starred("AAAAA") || !got.Starred("BBBBB") {
		t.Fatalf("starred codes lost: %v", got.StarredCodes)
	}
}

func TestRedisStoreLoadMissing(t *testing.T) {
	_, store := newRedisStoreForTest(t)
	if _, err := store.Load(context.Background(), "nobody"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
}

func TestRedisStoreKeyExpiresWithSession(t *testing.T) {
	server, store := newRedisStoreForTest(t)
	ctx := context.Background()

	sess := domain.NewSession("dev-1", time.Now(), time.Hour)
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("save: %v", err)
	}

	server.FastForward(2 * time.Hour)
	if _, err := store.Load(ctx, "dev-1"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession after ttl", err)
	}
}

func TestRedisStoreSaveExpiredDeletes(t *testing.T) {
	_, store := newRedisStoreForTest(t)
	ctx := context.Background()

	sess := domain.NewSession("dev-1", time.Now(), time.Hour)
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("save: %v", err)
	}

	sess.ExpiresAt = time.Now().Add(-time.Minute)
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("save expired: %v", err)
	}
	if _, err := store.Load(ctx, "dev-1"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession after expired save", err)
	}
}

func TestRedisStoreDelete(t *testing.T) {
	_, store := newRedisStoreForTest(t)
	ctx := context.Background()

	sess := domain.NewSession("dev-1", time.Now(), time.Hour)
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Delete(ctx, "dev-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Load(ctx, "dev-1"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
}
