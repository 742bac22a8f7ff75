package session

import (
	"sync"

	"github.com/petrijr/stepform/pkg/api"
)

// MemoryStore is a simple, goroutine-safe api.Store backed by a map.
// It is non-durable and intended for tests and the walkthrough driver.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]any),
	}
}

// Ensure MemoryStore implements the interface.
var _ api.Store = (*MemoryStore)(nil)

func (s *MemoryStore) Get(key string, def any) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return def, nil
	}
	return v, nil
}

func (s *MemoryStore) Put(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

func (s *MemoryStore) Increment(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, _ := asInt(s.values[key])
	s.values[key] = cur + 1
	return nil
}

// Save is a no-op: MemoryStore writes are immediately visible.
func (s *MemoryStore) Save() error {
	return nil
}

// Len returns the number of stored keys. Test helper.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.values)
}
