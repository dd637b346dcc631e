// ABOUTME: Injectable randomness for the prediction formulas
// ABOUTME: Wraps math/rand/v2 so tests can substitute a fixed sequence

package predict

import "math/rand/v2"

// Rand is the randomness the formulas draw from. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	// Float64 returns a value in [0, 1)
	Float64() float64
	// IntN returns a value in [0, n)
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }

// DefaultRand draws from the process-wide math/rand/v2 source.
var DefaultRand Rand = globalRand{}
