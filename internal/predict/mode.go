// ABOUTME: BONNE, MAUVAISE and ROSE formulas: two offset signals per capture
// ABOUTME: Offsets, multiplier ranges, labels and confidences are fixed per slot

package predict

import (
	"fmt"
	"strings"
	"time"

	"github.com/aloka/nexus/internal/session"
)

// DefaultPlatform is recorded when no platform has been synced
const DefaultPlatform = "ALOKA"

// UnknownRound is recorded when the capture carried no round id
const UnknownRound = "N/A"

// MaxJitter is the largest extra delay, in seconds, added to a signal time
const MaxJitter = 4

// Slot describes one output signal of a mode formula
type Slot struct {
	Offset     time.Duration
	Min, Max   float64
	Label      string
	Confidence int
}

// Formula is the pair of slots for one mode
type Formula [2]Slot

// Formulas holds the slot tables for the mode-based engine
var Formulas = map[session.Mode]Formula{
	session.ModeBonne: {
		{Offset: 2*time.Minute + 45*time.Second, Min: 2.00, Max: 4.00, Label: "SIGNAL FIABLE", Confidence: 98},
		{Offset: 4*time.Minute + 25*time.Second, Min: 2.50, Max: 12.00, Label: "POINT TACTIQUE", Confidence: 96},
	},
	session.ModeMauvaise: {
		{Offset: 1*time.Minute + 55*time.Second, Min: 1.80, Max: 3.50, Label: "REPLI RAPIDE", Confidence: 97},
		{Offset: 5*time.Minute + 2*time.Second, Min: 2.00, Max: 6.00, Label: "SORTIE SÉCURISÉE", Confidence: 94},
	},
	session.ModeRose: {
		{Offset: 2*time.Minute + 5*time.Second, Min: 5.00, Max: 20.00, Label: "VECTEUR ROSE", Confidence: 99},
		{Offset: 4*time.Minute + 22*time.Second, Min: 10.00, Max: 50.00, Label: "IMPULSION ÉLITE", Confidence: 95},
	},
}

// ParseMode maps a user-supplied mode name to a mode-based formula
func ParseMode(name string) (session.Mode, error) {
	m := session.Mode(strings.ToUpper(strings.TrimSpace(name)))
	if _, ok := Formulas[m]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
	return m, nil
}

// ModeRequest is the input of a mode-based prediction
type ModeRequest struct {
	Mode           session.Mode
	LastTime       string // HH:MM:SS of the last crash
	LastMultiplier string
	LastRoundID    string // optional
	Platform       string // synced platform, optional
	Engine         *session.Engine
}

// Signals computes the two signals of a mode formula from lastTime
func (g *Generator) Signals(mode session.Mode, lastTime string) (session.Signal, session.Signal, error) {
	f, ok := Formulas[mode]
	if !ok {
		return session.Signal{}, session.Signal{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	base, _ := clockSeconds(lastTime)
	return g.signal(f[0], base), g.signal(f[1], base), nil
}

func (g *Generator) signal(s Slot, base int) session.Signal {
	jitter := time.Duration(g.rand.IntN(MaxJitter+1)) * time.Second
	multiplier := s.Min + g.rand.Float64()*(s.Max-s.Min)
	return session.Signal{
		Time:       addClock(base, s.Offset+jitter),
		Multiplier: fmt.Sprintf("%.2f", multiplier),
		Label:      s.Label,
		Confidence: s.Confidence,
	}
}

// Generate builds a prediction for a mode-based capture. A missing time or
// multiplier fails with ErrIncompleteSignal.
func (g *Generator) Generate(req ModeRequest) (session.Prediction, error) {
	if strings.TrimSpace(req.LastTime) == "" || strings.TrimSpace(req.LastMultiplier) == "" {
		return session.Prediction{}, ErrIncompleteSignal
	}

	res1, res2, err := g.Signals(req.Mode, req.LastTime)
	if err != nil {
		return session.Prediction{}, err
	}

	platform := req.Platform
	if platform == "" {
		platform = DefaultPlatform
	}
	roundID := req.LastRoundID
	if roundID == "" {
		roundID = UnknownRound
	}

	return session.Prediction{
		ID:              g.millis(),
		Platform:        platform,
		Engine:          req.Engine,
		Timestamp:       session.NewTimestamp(g.clock.Now()),
		InputTime:       req.LastTime,
		InputMultiplier: req.LastMultiplier,
		Mode:            req.Mode,
		Hash:            g.hash(),
		Results:         session.Results{Res1: res1, Res2: &res2},
		Audit:           session.Audit{RoundID: roundID},
	}, nil
}
