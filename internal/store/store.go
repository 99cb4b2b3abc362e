package store

import (
	"sync"

	"smartgrid_simulator/internal/model"
)

// Store memoizes comparison results in memory, keyed by scenario
// fingerprint. When full, the oldest entry is evicted first.
type Store struct {
	mu       sync.RWMutex
	capacity int
	entries  map[string]model.ComparisonResult
	order    []string // insertion order, oldest first
}

// New creates a store holding at most capacity entries. A non-positive
// capacity stores nothing.
func New(capacity int) *Store {
	if capacity < 0 {
		capacity = 0
	}
	return &Store{
		capacity: capacity,
		entries:  make(map[string]model.ComparisonResult),
		order:    make([]string, 0, capacity),
	}
}

// Put stores a copy of res under key. Replacing an existing key keeps its
// position in the eviction order.
func (s *Store) Put(key string, res model.ComparisonResult) {
	if s.capacity == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; !ok {
		for len(s.order) >= s.capacity {
			oldest := s.order[0]
			n := copy(s.order, s.order[1:])
			s.order[n] = ""
			s.order = s.order[:n]
			delete(s.entries, oldest)
		}
		s.order = append(s.order, key)
	}
	s.entries[key] = res.Clone()
}

// Get returns a copy of the result stored under key.
func (s *Store) Get(key string) (model.ComparisonResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, ok := s.entries[key]
	if !ok {
		return model.ComparisonResult{}, false
	}
	return res.Clone(), true
}

// Len returns the number of stored results.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Keys returns stored keys, oldest first.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, len(s.order))
	copy(keys, s.order)
	return keys
}
