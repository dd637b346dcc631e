// ABOUTME: Quantum seed formula for DIRECT mode
// ABOUTME: Derives one signal from the fractional parts of two crash multipliers

package predict

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aloka/nexus/internal/session"
)

// Labels chosen by thresholding the quantum multiplier
const (
	EliteLabel     = "SIGNAL QUANTUM ELITE"
	StabilityLabel = "STABILITÉ NEURAL"
	EliteThreshold = 5.00
)

// Fixed fields of a DIRECT prediction
const (
	QuantumRoundID  = "ENGINE-QUANTUM-V11"
	QuantumIDPrefix = "QUANTUM-"
	QuantumHashTag  = "SHA512-QNTM-"
	DefaultBaseTime = "00:00:00"
)

// Source is the site a seed capture was taken from
type Source string

const (
	SourceBet261 Source = "bet261"
	Source1xBet  Source = "1xbet"
)

var (
	nonNumeric   = regexp.MustCompile(`[^\d.\-]`)
	leadingFloat = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)
)

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// QuantumResult is the output of the seed formula with its intermediates
type QuantumResult struct {
	Signal    session.Signal
	D1, D2    float64
	Stability float64
}

// fraction returns the fractional part of |token|. Characters other than
// digits, '.' and '-' are stripped first; an unparsable token yields a
// random value in [0, 0.99).
func (g *Generator) fraction(token string) float64 {
	cleaned := nonNumeric.ReplaceAllString(token, "")
	match := leadingFloat.FindString(cleaned)
	f, err := strconv.ParseFloat(match, 64)
	if match == "" || err != nil || math.IsInf(f, 0) {
		return g.rand.Float64() * 0.99
	}
	_, frac := math.Modf(math.Abs(f))
	return frac
}

// Coefficient is the seed formula's multiplier for fractional parts d1, d2.
// It is never below 1.00.
func Coefficient(d1, d2 float64) float64 {
	m := (d1 + d2) / 2
	factor := math.Sqrt(d1 * d2 * 100)
	wave := math.Abs(math.Sin(math.Pi * (d1 + d2)))
	raw := 1.00 + factor*wave*0.45 + m*2.2
	return math.Max(1.00, raw)
}

// Confidence is min(99, floor(82 + stability*17)) with stability 1-|d1-d2|
func Confidence(d1, d2 float64) int {
	stability := 1 - math.Abs(d1-d2)
	return min(99, int(math.Floor(82+stability*17)))
}

// Quantum applies the seed formula to two multiplier tokens and a base
// time. Missing tokens fail with ErrIncompleteSignal; non-numeric ones are
// tolerated. A base time without at least hours and minutes is replaced by
// the current time of day.
func (g *Generator) Quantum(m1, m2, baseTime string) (QuantumResult, error) {
	if strings.TrimSpace(m1) == "" || strings.TrimSpace(m2) == "" {
		return QuantumResult{}, ErrIncompleteSignal
	}

	d1, d2 := g.fraction(m1), g.fraction(m2)
	m := (d1 + d2) / 2

	coeff := fmt.Sprintf("%.2f", Coefficient(d1, d2))
	label := StabilityLabel
	if v, _ := strconv.ParseFloat(coeff, 64); v >= EliteThreshold {
		label = EliteLabel
	}

	base, ok := clockSeconds(baseTime)
	if !ok {
		base = timeOfDay(g.clock.Now())
	}
	minutes := max(1, int(math.Round((d1+d2)*4)))
	seconds := int(math.Floor(m * 59))
	target := addClock(base, time.Duration(minutes)*time.Minute+time.Duration(seconds)*time.Second)

	return QuantumResult{
		Signal: session.Signal{
			Time:       target,
			Multiplier: coeff,
			Label:      label,
			Confidence: Confidence(d1, d2),
		},
		D1:        d1,
		D2:        d2,
		Stability: 1 - math.Abs(d1-d2),
	}, nil
}

// SeedRequest is the input of a DIRECT prediction
type SeedRequest struct {
	Multiplier1 string // last crash
	Multiplier2 string // the one before
	BaseTime    string // optional, defaults to DefaultBaseTime
	Source      Source // defaults to SourceBet261
	Engine      *session.Engine
}

// GenerateDirect builds a DIRECT prediction from a seed capture
func (g *Generator) GenerateDirect(req SeedRequest) (session.Prediction, error) {
	base := req.BaseTime
	if strings.TrimSpace(base) == "" {
		base = DefaultBaseTime
	}
	res, err := g.Quantum(req.Multiplier1, req.Multiplier2, base)
	if err != nil {
		return session.Prediction{}, err
	}

	source := req.Source
	if source == "" {
		source = SourceBet261
	}
	inputTime := req.BaseTime
	if strings.TrimSpace(inputTime) == "" {
		inputTime = UnknownRound
	}

	return session.Prediction{
		ID:              QuantumIDPrefix + g.millis(),
		Platform:        strings.ToUpper(string(source)),
		Engine:          req.Engine,
		Timestamp:       session.NewTimestamp(g.clock.Now()),
		InputTime:       inputTime,
		InputMultiplier: req.Multiplier1 + " | " + req.Multiplier2,
		Mode:            session.ModeDirect,
		Hash:            QuantumHashTag + g.tag(8),
		Results:         session.Results{Res1: res.Signal},
		Audit:           session.Audit{RoundID: QuantumRoundID},
	}, nil
}

// ParseSource maps a capture source name, defaulting to Bet261
func ParseSource(name string) (Source, error) {
	switch s := Source(strings.ToLower(strings.TrimSpace(name))); s {
	case "":
		return SourceBet261, nil
	case SourceBet261, Source1xBet:
		return s, nil
	default:
		return "", fmt.Errorf("unknown capture source %q", name)
	}
}

func (g *Generator) tag(n int) string {
	var b strings.Builder
	for range n {
		b.WriteByte(base36[g.rand.IntN(len(base36))])
	}
	return b.String()
}
