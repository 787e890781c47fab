// Package shapes lays out decorative markers at random percentage offsets.
package shapes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xob0t/bggen/pkg/palette"
)

// Layout bounds. Offsets are floor(r*OffsetSpan)+MinOffset percent.
const (
	MaxCount   = 4
	MinOffset  = 10
	OffsetSpan = 80
	MaxOffset  = MinOffset + OffsetSpan
)

// Shape is a marker positioned by its top-left corner, in percent of the preview.
// Shapes are never modified after creation.
type Shape struct {
	Top  string `json:"top"`
	Left string `json:"left"`
}

// Generate returns between 1 and MaxCount shapes. For each shape top is drawn
// before left.
func Generate(rng palette.Source) []Shape {
	n := palette.Pick(rng, MaxCount) + 1
	out := make([]Shape, 0, n)
	for range n {
		top := offset(rng)
		left := offset(rng)
		out = append(out, Shape{Top: top, Left: left})
	}
	return out
}

func offset(rng palette.Source) string {
	return strconv.Itoa(palette.Pick(rng, OffsetSpan)+MinOffset) + "%"
}

// Clone returns an independent copy of a shape list.
func Clone(in []Shape) []Shape {
	if in == nil {
		return nil
	}
	out := make([]Shape, len(in))
	copy(out, in)
	return out
}

// ParsePercent parses "NN%" into NN.
func ParsePercent(s string) (int, error) {
	num, ok := strings.CutSuffix(s, "%")
	if !ok {
		return 0, fmt.Errorf("offset %q: missing %% suffix", s)
	}
	v, err := strconv.Atoi(num)
	if err != nil {
		return 0, fmt.Errorf("offset %q: %w", s, err)
	}
	return v, nil
}

// Fractions returns top and left as fractions of the preview size.
func (s Shape) Fractions() (top, left float64, err error) {
	t, err := ParsePercent(s.Top)
	if err != nil {
		return 0, 0, err
	}
	l, err := ParsePercent(s.Left)
	if err != nil {
		return 0, 0, err
	}
	return float64(t) / 100, float64(l) / 100, nil
}
