// ABOUTME: Backend interface and sentinel errors for durable document storage
// ABOUTME: A backend stores opaque payloads under string keys, optionally with a size quota

package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no payload is stored under the requested key
var ErrNotFound = errors.New("not found")

// ErrQuotaExceeded is returned when a payload is larger than the backend allows
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Backend is durable key/value storage for whole documents.
// Payloads are read and written as a unit; there are no partial updates.
type Backend interface {
	// Get returns the payload stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the payload stored under key. Returns ErrQuotaExceeded
	// (possibly wrapped) when the payload does not fit.
	Put(ctx context.Context, key string, payload []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend
	Close() error
}
