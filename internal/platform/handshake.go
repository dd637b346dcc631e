// ABOUTME: Sync handshake: verifies for a fixed delay, then records platform and engine
// ABOUTME: The commit is one session transition so the pair and unlock flag move together

package platform

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aloka/nexus/internal/clock"
	"github.com/aloka/nexus/internal/session"
)

// ErrIncompleteSelection is returned when submitting without both a
// platform and an engine
var ErrIncompleteSelection = errors.New("platform and engine must both be selected")

// DefaultDelay is how long the handshake stays VERIFYING
const DefaultDelay = 2 * time.Second

// State is the handshake's progress
type State string

const (
	StateIdle      State = "IDLE"
	StateVerifying State = "VERIFYING"
	StateSynced    State = "SYNCED"
)

// Dispatcher applies a named transition to the session document.
// *session.Container implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, name string, t session.Transition) (session.Document, error)
}

// Outcome is what a finished handshake produced. URL is the platform page
// to open. Err is set when recording the sync failed; a storage failure
// still leaves the sync applied in memory.
type Outcome struct {
	PlatformID string
	Engine     session.Engine
	URL        string
	Err        error
}

// Handshake runs sync submissions
type Handshake struct {
	mu       sync.Mutex
	catalog  *Catalog
	selector *Selector
	docs     Dispatcher
	clock    clock.Clock
	delay    time.Duration
	state    State
	pending  *clock.Completion[Outcome]
	logger   *slog.Logger
}

// NewHandshake creates a handshake with its own selector. A non-positive
// delay uses DefaultDelay.
func NewHandshake(catalog *Catalog, docs Dispatcher, c clock.Clock, delay time.Duration, logger *slog.Logger) *Handshake {
	if c == nil {
		c = clock.Real{}
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handshake{
		catalog:  catalog,
		selector: NewSelector(catalog),
		docs:     docs,
		clock:    c,
		delay:    delay,
		state:    StateIdle,
		logger:   logger.With("component", "platform"),
	}
}

// Selector returns the handshake's selector
func (h *Handshake) Selector() *Selector {
	return h.selector
}

// State returns the handshake's progress
func (h *Handshake) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Submit starts the handshake for the current selection. While a
// submission is VERIFYING, further calls return the same completion.
func (h *Handshake) Submit(ctx context.Context) (*clock.Completion[Outcome], error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state == StateVerifying && h.pending != nil {
		return h.pending, nil
	}

	sel := h.selector.Selection()
	if !sel.Complete() {
		return nil, ErrIncompleteSelection
	}
	p, err := h.catalog.Find(sel.PlatformID)
	if err != nil {
		return nil, err
	}

	h.state = StateVerifying
	h.logger.Info("sync verifying", "platform", p.ID, "engine", sel.Engine)

	commitCtx := context.WithoutCancel(ctx)
	h.pending = clock.After(h.clock, h.delay, func() Outcome {
		return h.commit(commitCtx, p, sel.Engine)
	})
	return h.pending, nil
}

func (h *Handshake) commit(ctx context.Context, p Platform, e EngineType) Outcome {
	out := Outcome{PlatformID: p.ID, Engine: e.SessionEngine(), URL: p.URL}
	_, err := h.docs.Dispatch(ctx, "apply_sync", session.ApplySync(p.ID, out.Engine))

	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending = nil

	switch {
	case err == nil:
		h.state = StateSynced
		h.logger.Info("sync complete", "platform", p.ID, "engine", out.Engine)
	case errors.Is(err, session.ErrStorage):
		h.state = StateSynced
		out.Err = err
		h.logger.Warn("sync applied but not persisted", "platform", p.ID, "error", err)
	default:
		h.state = StateIdle
		out.Err = err
		h.logger.Error("sync failed", "platform", p.ID, "error", err)
	}
	return out
}
