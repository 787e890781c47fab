// Package gradient builds and parses left-to-right CSS linear-gradient specs
// and applies them to preview surfaces.
package gradient

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xob0t/bggen/pkg/palette"
	"github.com/xob0t/bggen/pkg/preview"
)

// Direction is the only gradient direction produced.
const Direction = "to right"

const (
	prefix = "linear-gradient("
	suffix = ")"
)

// ErrMalformedSpec is returned by Parse for strings Spec could not have produced.
var ErrMalformedSpec = errors.New("malformed gradient spec")

// Spec returns "linear-gradient(to right, c0, c1, ...)" listing colors in order.
func Spec(colors []string) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(Direction)
	for _, c := range colors {
		b.WriteString(", ")
		b.WriteString(c)
	}
	b.WriteString(suffix)
	return b.String()
}

// Parse recovers the ordered colour stops from a spec built by Spec.
func Parse(spec string) (palette.Colors, error) {
	body, ok := strings.CutPrefix(strings.TrimSpace(spec), prefix)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMalformedSpec, spec)
	}
	body, ok = strings.CutSuffix(body, suffix)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMalformedSpec, spec)
	}

	parts := strings.Split(body, ",")
	if strings.TrimSpace(parts[0]) != Direction {
		return nil, fmt.Errorf("%w: unsupported direction %q", ErrMalformedSpec, strings.TrimSpace(parts[0]))
	}

	colors := make(palette.Colors, 0, len(parts)-1)
	for _, p := range parts[1:] {
		colors = append(colors, strings.TrimSpace(p))
	}
	if err := colors.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSpec, err)
	}
	return colors, nil
}

// Apply sets the gradient for colors as the surface background.
// It does nothing when the surface is not available yet.
func Apply(colors []string, s preview.Surface) {
	if !preview.Available(s) {
		return
	}
	s.SetBackground(Spec(colors))
}
