package cache

import (
	"sync"
	"time"
)

type entry struct {
	val       []byte
	expiresAt time.Time // zero means no expiry
}

// MemoryStorage is an in-process fiber.Storage. Expired keys are dropped
// lazily on access.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string]entry
	now  func() time.Time
}

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

// Get returns a copy of the value stored under key, or nil when missing or expired.
func (s *MemoryStorage) Get(key string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		s.mu.Lock()
		if cur, ok := s.data[key]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(s.data, key)
		}
		s.mu.Unlock()
		return nil, nil
	}
	out := make([]byte, len(e.val))
	copy(out, e.val)
	return out, nil
}

// Set stores a copy of val under key. A zero exp keeps the key forever.
func (s *MemoryStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	e := entry{val: make([]byte, len(val))}
	copy(e.val, val)
	if exp > 0 {
		e.expiresAt = s.now().Add(exp)
	}
	s.mu.Lock()
	s.data[key] = e
	s.mu.Unlock()
	return nil
}

// Delete removes key.
func (s *MemoryStorage) Delete(key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

// Reset removes every key.
func (s *MemoryStorage) Reset() error {
	s.mu.Lock()
	s.data = make(map[string]entry)
	s.mu.Unlock()
	return nil
}

// Close is a no-op.
func (s *MemoryStorage) Close() error {
	return nil
}
