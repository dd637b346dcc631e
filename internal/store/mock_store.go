// ABOUTME: Mock Backend implementation for testing
// ABOUTME: Allows tests to run without SQLite and to inject write failures

package store

import (
	"context"
	"fmt"
	"sync"
)

// MockStore is an in-memory Backend implementation for testing.
type MockStore struct {
	mu         sync.RWMutex
	docs       map[string][]byte // keyed by document key
	quotaBytes int
	putCalls   int
	putErrs    []error // consumed one per Put call, front first
	closed     bool
}

// NewMockStore creates a new MockStore. A quotaBytes of zero or less
// disables the quota check.
func NewMockStore(quotaBytes int) *MockStore {
	return &MockStore{
		docs:       make(map[string][]byte),
		quotaBytes: quotaBytes,
	}
}

// FailNextPuts makes the next len(errs) Put calls fail with the given
// errors, in order, without storing anything.
func (m *MockStore) FailNextPuts(errs ...error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putErrs = append(m.putErrs, errs...)
}

// PutCalls returns the number of Put calls made so far, successful or not.
func (m *MockStore) PutCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.putCalls
}

// Raw stores payload under key directly, bypassing quota and failure
// injection. Used to seed corrupted documents in tests.
func (m *MockStore) Raw(key string, payload []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[key] = append([]byte(nil), payload...)
}

// Get retrieves a payload by key.
func (m *MockStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	payload, ok := m.docs[key]
	if !ok {
		return nil, ErrNotFound
	}

	// Return a copy
	return append([]byte(nil), payload...), nil
}

// Put stores a payload, honouring injected failures and the quota.
func (m *MockStore) Put(ctx context.Context, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.putCalls++
	if len(m.putErrs) > 0 {
		err := m.putErrs[0]
		m.putErrs = m.putErrs[1:]
		return err
	}
	if m.quotaBytes > 0 && len(payload) > m.quotaBytes {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrQuotaExceeded, len(payload), m.quotaBytes)
	}

	// Make a copy to avoid external modification
	m.docs[key] = append([]byte(nil), payload...)
	return nil
}

// Delete removes a payload by key.
func (m *MockStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, key)
	return nil
}

// Close marks the store closed.
func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Compile-time check that MockStore implements Backend
var _ Backend = (*MockStore)(nil)
