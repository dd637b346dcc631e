// ABOUTME: Persister loads and saves the session document through a store.Backend
// ABOUTME: Recovers from malformed payloads and retries oversized writes without inline media

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aloka/nexus/internal/store"
)

// Persister reads and writes the session document under a fixed key
type Persister struct {
	backend store.Backend
	key     string
	logger  *slog.Logger
}

// NewPersister creates a persister writing under key (StorageKey if empty)
func NewPersister(backend store.Backend, key string, logger *slog.Logger) *Persister {
	if key == "" {
		key = StorageKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Persister{
		backend: backend,
		key:     key,
		logger:  logger.With("component", "persister"),
	}
}

// Load returns the stored document, or fallback when nothing usable is
// stored. A malformed payload is purged so it cannot resurface. The bool
// reports whether the document came from storage.
func (p *Persister) Load(ctx context.Context, fallback Document) (Document, bool) {
	payload, err := p.backend.Get(ctx, p.key)
	if errors.Is(err, store.ErrNotFound) {
		return fallback, false
	}
	if err != nil {
		p.logger.Warn("reading session document failed, using defaults", "error", err)
		return fallback, false
	}

	var doc Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		p.logger.Error("session document is malformed, purging", "error", err, "size", len(payload))
		if delErr := p.backend.Delete(ctx, p.key); delErr != nil {
			p.logger.Warn("purging malformed session document failed", "error", delErr)
		}
		return fallback, false
	}

	return doc.normalize(), true
}

// Save writes doc. If the write fails it retries exactly once with inline
// wallpaper media replaced by DefaultWallpaper. A second failure is returned
// wrapped in ErrStorage.
func (p *Persister) Save(ctx context.Context, doc Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: encoding document: %w", ErrStorage, err)
	}

	firstErr := p.backend.Put(ctx, p.key, payload)
	if firstErr == nil {
		return nil
	}

	p.logger.Warn("saving session document failed, retrying without inline media",
		"error", firstErr,
		"quota", errors.Is(firstErr, store.ErrQuotaExceeded),
		"size", len(payload))

	reduced := withoutInlineMedia(doc)
	payload, err = json.Marshal(reduced)
	if err != nil {
		return fmt.Errorf("%w: encoding reduced document: %w", ErrStorage, err)
	}
	if err := p.backend.Put(ctx, p.key, payload); err != nil {
		p.logger.Error("saving reduced session document failed, write dropped", "error", err)
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	p.logger.Info("saved reduced session document", "size", len(payload))
	return nil
}

// withoutInlineMedia replaces an inline wallpaper with the default reference
func withoutInlineMedia(doc Document) Document {
	if doc.CustomWallpaper != nil && IsInlineMedia(*doc.CustomWallpaper) {
		doc = doc.Clone()
		fallback := DefaultWallpaper
		doc.CustomWallpaper = &fallback
	}
	return doc
}
