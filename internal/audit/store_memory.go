package audit

import (
	"context"
	"fmt"
	"sync"

	"confgate/pkg/domain"
	"confgate/pkg/platform/sentinel"
)

// DefaultRetention is how many entries the in-memory journal keeps when no
// capacity is configured.
const DefaultRetention = 256

// InMemoryStore retains the most recent entries in a fixed-capacity ring.
// Configuration state is process-lifetime only, so its journal is too.
type InMemoryStore struct {
	mu       sync.RWMutex
	capacity int
	events   []Event
	start    int
	count    int
}

// NewInMemoryStore creates a ring journal. A non-positive capacity selects
// DefaultRetention.
func NewInMemoryStore(capacity int) *InMemoryStore {
	if capacity <= 0 {
		capacity = DefaultRetention
	}
	return &InMemoryStore{
		capacity: capacity,
		events:   make([]Event, capacity),
	}
}

// Append records an entry, evicting the oldest once capacity is reached.
func (s *InMemoryStore) Append(ctx context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := (s.start + s.count) % s.capacity
	s.events[idx] = e
	if s.count < s.capacity {
		s.count++
	} else {
		s.start = (s.start + 1) % s.capacity
	}
	return nil
}

// List returns up to limit retained entries, newest first.
func (s *InMemoryStore) List(ctx context.Context, limit int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := s.count
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Event, 0, n)
	for i := 0; i < n; i++ {
		idx := (s.start + s.count - 1 - i) % s.capacity
		out = append(out, s.events[idx])
	}
	return out, nil
}

// Find returns the retained entry with the given ID.
func (s *InMemoryStore) Find(ctx context.Context, id domain.ChangeID) (Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := 0; i < s.count; i++ {
		idx := (s.start + i) % s.capacity
		if s.events[idx].ID == id {
			return s.events[idx], nil
		}
	}
	return Event{}, fmt.Errorf("audit event %s: %w", id, sentinel.ErrNotFound)
}
