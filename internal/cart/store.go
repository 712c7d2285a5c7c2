package cart

import (
	"context"
	"encoding/json"
	"sync"
)

// Store is the persistence port for cart buckets. Load returns a nil slice
// for buckets that were never saved or were erased.
type Store interface {
	Load(ctx context.Context, key Key) ([]Line, error)
	Save(ctx context.Context, key Key, lines []Line) error
	Erase(ctx context.Context, key Key) error
}

// MemoryStore keeps cart buckets in process memory. Used by tests and the
// dev-mode fallback when neither Redis nor SQL is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	buckets map[Key][]byte
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[Key][]byte)}
}

// Load implements Store.
func (s *MemoryStore) Load(ctx context.Context, key Key) ([]Line, error) {
	s.mu.RLock()
	payload, ok := s.buckets[key]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var lines []Line
	if err := json.Unmarshal(payload, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, key Key, lines []Line) error {
	payload, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.buckets[key] = payload
	s.mu.Unlock()
	return nil
}

// Erase implements Store.
func (s *MemoryStore) Erase(ctx context.Context, key Key) error {
	s.mu.Lock()
	delete(s.buckets, key)
	s.mu.Unlock()
	return nil
}
