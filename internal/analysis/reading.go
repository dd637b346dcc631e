// ABOUTME: Validation of the JSON readings returned by the vision model
// ABOUTME: Malformed JSON and missing fields both count as an incomplete signal

package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aloka/nexus/internal/predict"
)

// ErrUpstreamUnavailable is returned when the analysis service could not
// be reached or failed
var ErrUpstreamUnavailable = errors.New("analysis service unavailable")

// ModeReading is what a mode-based capture yields
type ModeReading struct {
	LastTime       string `json:"lastTime"`
	LastMultiplier string `json:"lastMultiplier"`
	LastRoundID    string `json:"lastRoundId,omitempty"`
}

// SeedReading is what a seed capture yields
type SeedReading struct {
	Multiplier1 string `json:"multiplier1"` // last crash
	Multiplier2 string `json:"multiplier2"` // the one before
	BaseTime    string `json:"baseTime,omitempty"`
}

// field is a reading value the model may send as a JSON string or number.
// null decodes to empty.
type field string

func (f *field) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = field(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = field(n.String())
	return nil
}

type modeWire struct {
	LastTime       field `json:"lastTime"`
	LastMultiplier field `json:"lastMultiplier"`
	LastRoundID    field `json:"lastRoundId"`
}

type seedWire struct {
	Multiplier1 field `json:"multiplier1"`
	Multiplier2 field `json:"multiplier2"`
	BaseTime    field `json:"baseTime"`
}

// ParseModeReading validates a mode-based reading. lastTime and
// lastMultiplier are required.
func ParseModeReading(raw string) (ModeReading, error) {
	var w modeWire
	if err := decode(raw, &w); err != nil {
		return ModeReading{}, err
	}
	r := ModeReading{
		LastTime:       string(w.LastTime),
		LastMultiplier: string(w.LastMultiplier),
		LastRoundID:    string(w.LastRoundID),
	}
	if strings.TrimSpace(r.LastTime) == "" || strings.TrimSpace(r.LastMultiplier) == "" {
		return ModeReading{}, fmt.Errorf("%w: reading lacks lastTime or lastMultiplier", predict.ErrIncompleteSignal)
	}
	return r, nil
}

// ParseSeedReading validates a seed reading. Both multipliers are
// required; baseTime is optional.
func ParseSeedReading(raw string) (SeedReading, error) {
	var w seedWire
	if err := decode(raw, &w); err != nil {
		return SeedReading{}, err
	}
	r := SeedReading{
		Multiplier1: string(w.Multiplier1),
		Multiplier2: string(w.Multiplier2),
		BaseTime:    string(w.BaseTime),
	}
	if strings.TrimSpace(r.Multiplier1) == "" || strings.TrimSpace(r.Multiplier2) == "" {
		return SeedReading{}, fmt.Errorf("%w: reading lacks multiplier1 or multiplier2", predict.ErrIncompleteSignal)
	}
	return r, nil
}

// decode accepts the model's text, tolerating a fenced code block around
// the JSON object
func decode(raw string, v any) error {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("%w: empty reading", predict.ErrIncompleteSignal)
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return fmt.Errorf("%w: malformed reading: %w", predict.ErrIncompleteSignal, err)
	}
	return nil
}
