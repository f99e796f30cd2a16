package shipment

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store used in tests and local development.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Shipment
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Shipment)}
}

// List returns all records ordered by ID for deterministic output.
func (m *MemoryStore) List(_ context.Context) ([]Shipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Shipment, 0, len(m.records))
	for _, s := range m.records {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Get returns the record with the given ID, or nil when absent.
func (m *MemoryStore) Get(_ context.Context, id string) (*Shipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// Save creates or overwrites a record.
func (m *MemoryStore) Save(_ context.Context, s *Shipment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[s.ID] = *s
	return nil
}

// Delete removes a record by ID.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}
