// ABOUTME: Pseudo-hash attached to every mode-based prediction
// ABOUTME: Random hex, not a digest of anything

package audit

import (
	"math/rand/v2"
	"strings"
)

// HashLength is the number of hex characters in a stamp
const HashLength = 64

const hexDigits = "0123456789abcdef"

// Hash returns HashLength random lowercase hex characters
func Hash() string {
	var b strings.Builder
	b.Grow(HashLength)
	for range HashLength {
		b.WriteByte(hexDigits[rand.IntN(len(hexDigits))])
	}
	return b.String()
}
