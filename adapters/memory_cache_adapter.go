package adapters

import (
	"context"
	"sync"
)

// MemoryCacheAdapter keeps values in process memory.
// Useful for tests and for scenarios where durability is not required.
type MemoryCacheAdapter struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ CacheAdapter = (*MemoryCacheAdapter)(nil)

// NewMemoryCacheAdapter creates an empty MemoryCacheAdapter.
func NewMemoryCacheAdapter() *MemoryCacheAdapter {
	return &MemoryCacheAdapter{values: make(map[string]string)}
}

func (m *MemoryCacheAdapter) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *MemoryCacheAdapter) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Clear drops every stored value.
func (m *MemoryCacheAdapter) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = make(map[string]string)
}
