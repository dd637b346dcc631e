// ABOUTME: Verification panels with the IDLE, CHECKING, VERIFIED lifecycle
// ABOUTME: The CHECKING to VERIFIED step is a clock.Completion so tests can advance it

package audit

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aloka/nexus/internal/clock"
)

// State is a panel's verification state
type State string

const (
	StateIdle     State = "IDLE"
	StateChecking State = "CHECKING"
	StateVerified State = "VERIFIED"
)

// DefaultDelay is how long CHECKING lasts unless configured otherwise
const DefaultDelay = 2 * time.Second

// ErrPanelClosed is returned when verifying through a panel that was closed
var ErrPanelClosed = errors.New("verification panel closed")

// Verifier tracks the open panel of each prediction
type Verifier struct {
	mu     sync.Mutex
	clock  clock.Clock
	delay  time.Duration
	panels map[string]*Panel
	logger *slog.Logger
}

// NewVerifier creates a verifier. A non-positive delay uses DefaultDelay.
func NewVerifier(c clock.Clock, delay time.Duration, logger *slog.Logger) *Verifier {
	if c == nil {
		c = clock.Real{}
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{
		clock:  c,
		delay:  delay,
		panels: make(map[string]*Panel),
		logger: logger.With("component", "audit"),
	}
}

// Open returns the open panel for a prediction, creating an IDLE one if
// none is open.
func (v *Verifier) Open(predictionID string) *Panel {
	v.mu.Lock()
	defer v.mu.Unlock()

	if p, ok := v.panels[predictionID]; ok {
		return p
	}
	p := &Panel{
		ID:           uuid.New().String(),
		PredictionID: predictionID,
		state:        StateIdle,
		verifier:     v,
	}
	v.panels[predictionID] = p
	return p
}

// Close discards the panel of a prediction. A pending check is cancelled.
func (v *Verifier) Close(predictionID string) {
	v.mu.Lock()
	p, ok := v.panels[predictionID]
	delete(v.panels, predictionID)
	v.mu.Unlock()

	if ok {
		p.close()
	}
}

// State reports the state of a prediction's open panel, IDLE if none
func (v *Verifier) State(predictionID string) State {
	v.mu.Lock()
	p, ok := v.panels[predictionID]
	v.mu.Unlock()
	if !ok {
		return StateIdle
	}
	return p.State()
}

// Panel is the verification view of one prediction
type Panel struct {
	ID           string
	PredictionID string

	mu       sync.Mutex
	state    State
	closed   bool
	check    *clock.Completion[State]
	verifier *Verifier
}

// State returns the panel's current state
func (p *Panel) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Verify starts the check. Calling it again while CHECKING or after
// VERIFIED returns the same completion.
func (p *Panel) Verify() (*clock.Completion[State], error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrPanelClosed
	}
	if p.check != nil {
		return p.check, nil
	}

	p.state = StateChecking
	p.verifier.logger.Debug("verification started", "prediction", p.PredictionID, "panel", p.ID)
	p.check = clock.After(p.verifier.clock, p.verifier.delay, func() State {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.closed {
			return StateIdle
		}
		p.state = StateVerified
		p.verifier.logger.Debug("verification complete", "prediction", p.PredictionID, "panel", p.ID)
		return StateVerified
	})
	return p.check, nil
}

func (p *Panel) close() {
	p.mu.Lock()
	check := p.check
	p.closed = true
	p.state = StateIdle
	p.check = nil
	p.mu.Unlock()

	if check != nil {
		check.Cancel()
	}
}
