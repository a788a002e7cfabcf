// Package store persists the serialized chat state under a single fixed
// key in a key-value slot.
package store

import (
	"context"
	"sync"
)

// StateKey is the fixed key the chat state lives under.
const StateKey = "ai_messenger_chat_data"

// Store is a single-slot key-value store for serialized chat state.
type Store interface {
	// Save writes the state blob.
	Save(ctx context.Context, data []byte) error

	// Load reads the state blob. The bool reports whether a blob was
	// present; absence is not an error.
	Load(ctx context.Context) ([]byte, bool, error)
}

// MemoryStore keeps the state blob in process memory. Used in tests and
// when no external store is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
	set  bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save writes the state blob.
func (s *MemoryStore) Save(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
	s.set = true
	return nil
}

// Load reads the state blob.
func (s *MemoryStore) Load(ctx context.Context) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return nil, false, nil
	}
	return append([]byte(nil), s.data...), true, nil
}

var _ Store = (*MemoryStore)(nil)
