// Package store holds analyzed document entries in memory. Durable
// persistence is an external responsibility; this store stands in for that
// key-value collaborator behind a small interface.
package store

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/factify-ai/factify/internal/types"
)

// DocumentStore stores immutable document entries by ID.
type DocumentStore interface {
	// Put stores an entry under a fresh unique ID and returns the stored copy.
	Put(classification types.ClassificationResult, metadata types.Metadata) types.DocumentEntry

	// Get returns the entry for id, or false.
	Get(id string) (types.DocumentEntry, bool)

	// List returns all entries ordered by ID.
	List() []types.DocumentEntry
}

// MemoryStore is an in-memory DocumentStore safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]types.DocumentEntry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]types.DocumentEntry)}
}

// Put stores an entry under a fresh UUID.
func (s *MemoryStore) Put(classification types.ClassificationResult, metadata types.Metadata) types.DocumentEntry {
	entry := types.DocumentEntry{
		ID:             uuid.New().String(),
		Classification: classification,
		Metadata:       metadata,
	}

	s.mu.Lock()
	s.entries[entry.ID] = entry
	s.mu.Unlock()

	return entry
}

// Get returns the entry for id.
func (s *MemoryStore) Get(id string) (types.DocumentEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	return entry, ok
}

// List returns all entries ordered by ID.
func (s *MemoryStore) List() []types.DocumentEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.DocumentEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
