// Package palette generates random hex colour palettes for gradient backgrounds.
//
// All randomness flows through a Source so callers can make generation
// deterministic (tests, seeded CLI runs).
package palette

import (
	"math/rand/v2"
	"strings"
)

// Palette size bounds for Generate.
const (
	MinSize = 2
	MaxSize = 7
)

// DefaultColor is the single entry of a fresh palette.
const DefaultColor = "#ffffff"

const hexDigits = "0123456789ABCDEF"

// Source yields uniformly distributed floats in [0, 1).
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a seeded PCG source.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Constant is a Source that always returns the same value. Useful for tests.
type Constant float64

// Float64 implements Source.
func (c Constant) Float64() float64 { return float64(c) }

// Pick returns floor(r*n) for the next draw r, clamped to [0, n).
func Pick(rng Source, n int) int {
	i := int(rng.Float64() * float64(n))
	return min(max(i, 0), n-1)
}

// Colors is an ordered list of "#RRGGBB" strings. Order defines gradient stop order.
type Colors []string

// Default returns the palette a new session starts with.
func Default() Colors {
	return Colors{DefaultColor}
}

// Clone returns an independent copy.
func (c Colors) Clone() Colors {
	out := make(Colors, len(c))
	copy(out, c)
	return out
}

// Generate returns between MinSize and MaxSize random colours.
func Generate(rng Source) Colors {
	n := Pick(rng, MaxSize-MinSize+1) + MinSize
	colors := make(Colors, 0, n)
	for range n {
		colors = append(colors, RandomColor(rng))
	}
	return colors
}

// RandomColor builds "#" followed by six independently drawn upper-case hex digits.
func RandomColor(rng Source) string {
	var b strings.Builder
	b.Grow(7)
	b.WriteByte('#')
	for range 6 {
		b.WriteByte(hexDigits[Pick(rng, len(hexDigits))])
	}
	return b.String()
}
