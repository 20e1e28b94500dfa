package storage

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-process Store for tests and single-node development.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Migration
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Migration)}
}

// Create stores a new migration record.
func (s *MemoryStore) Create(_ context.Context, m *Migration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[m.ID]; ok {
		return ErrAlreadyExists
	}
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
	if m.Status == "" {
		m.Status = StatusPending
	}
	s.records[m.ID] = *m
	return nil
}

// Get retrieves a migration by ID.
func (s *MemoryStore) Get(_ context.Context, id string) (*Migration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &m, nil
}

// Update overwrites an existing migration record.
func (s *MemoryStore) Update(_ context.Context, m *Migration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[m.ID]; !ok {
		return ErrNotFound
	}
	m.UpdatedAt = time.Now()
	s.records[m.ID] = *m
	return nil
}

// Delete removes a migration record.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	return nil
}

// List returns migrations matching the filter, newest first.
func (s *MemoryStore) List(_ context.Context, filter ListFilter) ([]*Migration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*Migration, 0, len(s.records))
	for id := range s.records {
		m := s.records[id]
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		records = append(records, &m)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return page(records, filter), nil
}
