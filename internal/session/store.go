package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"cardpark/internal/domain"
)

var ErrNoSession = errors.New("no session for device")

// Store persists one session per device. An absent session is not an
// error condition for callers beyond ErrNoSession; expired sessions
// behave as absent.
type Store interface {
	Load(ctx context.Context, deviceID string) (*domain.Session, error)
	Save(ctx context.Context, s *domain.Session) error
	Delete(ctx context.Context, deviceID string) error
}

// MemoryStore keeps sessions in process memory. Used for the dev
// profile and tests; last writer wins, matching the browser
// localStorage semantics of the original client.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*domain.Session),
		now:      time.Now,
	}
}

func (s *MemoryStore) Load(_ context.Context, deviceID string) (*domain.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[deviceID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNoSession
	}
	if sess.Expired(s.now()) {
		s.mu.Lock()
		delete(s.sessions, deviceID)
		s.mu.Unlock()
		return nil, ErrNoSession
	}
	clone := *sess
	clone.StarredCodes = append([]string(nil), sess.StarredCodes...)
	return &clone, nil
}

func (s *MemoryStore) Save(_ context.Context, sess *domain.Session) error {
	if sess == nil || sess.DeviceID == "" {
		return errors.New("session must carry a device id")
	}
	clone := *sess
	clone.StarredCodes = append([]string(nil), sess.StarredCodes...)
	s.mu.Lock()
	s.sessions[sess.DeviceID] = &clone
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, deviceID string) error {
	s.mu.Lock()
	delete(s.sessions, deviceID)
	s.mu.Unlock()
	return nil
}
