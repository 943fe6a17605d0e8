package storage

import (
	"context"
	"sync"
)

// MemoryBackend is a map-backed Backend used in tests and local development.
// Failure hooks let tests simulate a broken object store.
type MemoryBackend struct {
	mu         sync.RWMutex
	dataByKey  map[string][]byte
	FailPut    error // returned by Put when set
	FailGet    error // returned by Get when set
	FailExists bool  // forces Exists to report false when set
	FailSize   bool  // forces Size to report 0 when set
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{dataByKey: map[string][]byte{}}
}

func (m *MemoryBackend) Exists(ctx context.Context, key string) bool {
	if m.FailExists {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.dataByKey[key]
	return ok
}

func (m *MemoryBackend) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if m.FailPut != nil {
		return m.FailPut
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	m.dataByKey[key] = stored
	return nil
}

func (m *MemoryBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if m.FailGet != nil {
		return nil, m.FailGet
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.dataByKey[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MemoryBackend) Size(ctx context.Context, key string) int64 {
	if m.FailSize {
		return 0
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.dataByKey[key]))
}
