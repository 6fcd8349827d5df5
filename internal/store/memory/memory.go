package memory

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/nextdir/internal/store"
)

// Store keeps collections in process memory.
// It is the default driver and the one used by tests.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
	now         func() time.Time
}

// collection preserves insertion order so unordered lists are stable.
type collection struct {
	order   []string
	records map[string]store.Record
}

// New creates an empty memory store
func New() *Store {
	return &Store{
		collections: make(map[string]*collection),
		now:         time.Now,
	}
}

func (s *Store) Name() string { return "memory" }

// List returns copies of the matching records
func (s *Store) List(_ context.Context, name string, opts store.ListOptions) ([]store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return []store.Record{}, nil
	}

	all := make([]store.Record, 0, len(c.order))
	for _, id := range c.order {
		all = append(all, c.records[id].Clone())
	}
	return store.Apply(all, opts), nil
}

// Create inserts a record, replacing any record with the same id
func (s *Store) Create(_ context.Context, name string, payload store.Record) (store.Record, error) {
	rec := store.Prepare(payload, s.now())

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collectionLocked(name)
	id := rec.ID()
	if _, exists := c.records[id]; !exists {
		c.order = append(c.order, id)
	}
	c.records[id] = rec

	return rec.Clone(), nil
}

// Update merges patch into an existing record
func (s *Store) Update(_ context.Context, name, id string, patch store.Record) (store.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	rec, ok := c.records[id]
	if !ok {
		return nil, store.ErrNotFound
	}

	merged := store.Merge(rec, patch, s.now())
	c.records[id] = merged
	return merged.Clone(), nil
}

// Delete removes a record
func (s *Store) Delete(_ context.Context, name, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		return store.ErrNotFound
	}
	if _, ok := c.records[id]; !ok {
		return store.ErrNotFound
	}

	delete(c.records, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Count returns the number of records in a collection
func (s *Store) Count(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.collections[name]; ok {
		return len(c.records)
	}
	return 0
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func (s *Store) collectionLocked(name string) *collection {
	c, ok := s.collections[name]
	if !ok {
		c = &collection{records: make(map[string]store.Record)}
		s.collections[name] = c
	}
	return c
}
