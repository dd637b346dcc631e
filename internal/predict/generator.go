// ABOUTME: Generator binds the formulas to a randomness source, clock and hasher
// ABOUTME: Builds complete prediction records ready to be prepended to history

package predict

import (
	"strconv"

	"github.com/aloka/nexus/internal/audit"
	"github.com/aloka/nexus/internal/clock"
)

// Generator produces predictions. The zero value is not usable; use
// NewGenerator.
type Generator struct {
	rand  Rand
	clock clock.Clock
	hash  func() string
}

// NewGenerator creates a generator. Nil arguments fall back to the
// process-wide random source, the wall clock and audit.Hash.
func NewGenerator(r Rand, c clock.Clock, hash func() string) *Generator {
	if r == nil {
		r = DefaultRand
	}
	if c == nil {
		c = clock.Real{}
	}
	if hash == nil {
		hash = audit.Hash
	}
	return &Generator{rand: r, clock: c, hash: hash}
}

func (g *Generator) millis() string {
	return strconv.FormatInt(g.clock.Now().UnixMilli(), 10)
}
