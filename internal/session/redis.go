package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cardpark/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists sessions as JSON values whose TTL tracks the
// session expiry, so the store never serves a session past its window.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "cardpark:session"
	}
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

func (s *RedisStore) Load(ctx context.Context, deviceID string) (*domain.Session, error) {
	raw, err := s.client.Get(ctx, s.key(deviceID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	var sess domain.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("load session: decode: %w", err)
	}
	if sess.Expired(s.now()) {
		_ = s.client.Del(ctx, s.key(deviceID)).Err()
		return nil, ErrNoSession
	}
	return &sess, nil
}

func (s *RedisStore) Save(ctx context.Context, sess *domain.Session) error {
	if sess == nil || sess.DeviceID == "" {
		return errors.New("session must carry a device id")
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("save session: encode: %w", err)
	}
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return s.Delete(ctx, sess.DeviceID)
	}
	if err := s.client.Set(ctx, s.key(sess.DeviceID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, deviceID string) error {
	if err := s.client.Del(ctx, s.key(deviceID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *RedisStore) key(deviceID string) string {
	return s.prefix + ":" + deviceID
}
