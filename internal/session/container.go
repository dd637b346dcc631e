// ABOUTME: Container holds the live session document and applies named transitions
// ABOUTME: Every committed transition is followed by exactly one persist attempt

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Saver persists a document. *Persister implements it.
type Saver interface {
	Save(ctx context.Context, doc Document) error
}

// Container is the single owner of the in-memory session document.
// Transitions are serialised, so each one sees a consistent snapshot.
type Container struct {
	mu     sync.Mutex
	doc    Document
	saver  Saver
	logger *slog.Logger
}

// NewContainer creates a container around an initial document
func NewContainer(initial Document, saver Saver, logger *slog.Logger) *Container {
	if logger == nil {
		logger = slog.Default()
	}
	return &Container{
		doc:    initial.Clone(),
		saver:  saver,
		logger: logger.With("component", "session"),
	}
}

// Snapshot returns a copy of the current document
func (c *Container) Snapshot() Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc.Clone()
}

// Dispatch applies t to the current document. If t fails, nothing changes
// and nothing is persisted. Otherwise the new document is committed and saved
// once; a save failure is returned wrapped in ErrStorage but the commit
// stands. The returned document is always the current state.
func (c *Container) Dispatch(ctx context.Context, name string, t Transition) (Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := t(c.doc.Clone())
	if err != nil {
		c.logger.Debug("transition rejected", "transition", name, "error", err)
		return c.doc.Clone(), err
	}

	c.doc = next
	c.logger.Debug("transition applied", "transition", name)

	if c.saver == nil {
		return c.doc.Clone(), nil
	}
	if err := c.saver.Save(ctx, c.doc); err != nil {
		if !errors.Is(err, ErrStorage) {
			err = fmt.Errorf("%w: %w", ErrStorage, err)
		}
		c.logger.Error("persisting session failed", "transition", name, "error", err)
		return c.doc.Clone(), err
	}
	return c.doc.Clone(), nil
}
