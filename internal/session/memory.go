package session

import (
	"context"
	"sync"
	"time"

	"papertrade/internal/models"
)

type memoryEntry struct {
	userID    string
	expiresAt time.Time
}

// MemoryStore keeps sessions in a mutex-guarded map. Suitable for a
// single-node deployment and for tests; sessions do not survive a
// restart.
type MemoryStore struct {
	mu  sync.RWMutex
	m   map[string]memoryEntry
	ttl time.Duration
	now func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{m: make(map[string]memoryEntry), ttl: ttl, now: time.Now}
}

func (s *MemoryStore) Create(_ context.Context, userID string) (string, error) {
	token := newToken()
	s.mu.Lock()
	s.m[token] = memoryEntry{userID: userID, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return token, nil
}

func (s *MemoryStore) Get(_ context.Context, token string) (string, error) {
	s.mu.RLock()
	entry, ok := s.m[token]
	s.mu.RUnlock()
	if !ok {
		return "", models.ErrSessionNotFound
	}
	if s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.m, token)
		s.mu.Unlock()
		return "", models.ErrSessionNotFound
	}
	return entry.userID, nil
}

func (s *MemoryStore) Destroy(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.m, token)
	s.mu.Unlock()
	return nil
}
