package testutil

import (
	"context"
	"errors"
	"sync"
)

// ErrInjected is returned by MemoryStorage when a failure is injected.
var ErrInjected = errors.New("injected storage failure")

// MemoryStorage is an in-memory cart.Storage for tests.
//
// Failures can be injected per operation to exercise the engine's
// degrade-silently paths. Every successful Set is counted so tests can
// assert that writes were suppressed.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type MemoryStorage struct {
	mu      sync.Mutex
	data    map[string][]byte
	writes  int
	failGet bool
	failSet bool
}

// NewMemoryStorage creates an empty storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

// Get returns a copy of the value under key.
func (m *MemoryStorage) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, false, ErrInjected
	}
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set stores a copy of value under key.
func (m *MemoryStorage) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet {
		return ErrInjected
	}
	m.data[key] = append([]byte(nil), value...)
	m.writes++
	return nil
}

// Put seeds a raw value without counting it as a write.
func (m *MemoryStorage) Put(key string, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = []byte(value)
}

// Raw returns the stored value as a string, or "" if absent.
func (m *MemoryStorage) Raw(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.data[key])
}

// Writes returns the number of successful Set calls.
func (m *MemoryStorage) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// FailGet makes subsequent Get calls fail (or succeed again).
func (m *MemoryStorage) FailGet(fail bool) {
	m.mu.Lock()
	m.failGet = fail
	m.mu.Unlock()
}

// FailSet makes subsequent Set calls fail (or succeed again).
func (m *MemoryStorage) FailSet(fail bool) {
	m.mu.Lock()
	m.failSet = fail
	m.mu.Unlock()
}
