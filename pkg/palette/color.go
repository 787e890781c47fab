// color.go - Hex colour parsing.
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ErrInvalidColor is returned for strings that are not "#rrggbb".
var ErrInvalidColor = errors.New("invalid color")

// ParseHex parses "#rrggbb" (either case) into an opaque color.RGBA.
func ParseHex(s string) (color.RGBA, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("%w %q: expected #rrggbb", ErrInvalidColor, s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w %q: %w", ErrInvalidColor, s, err)
	}

	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// IsHex reports whether s parses with ParseHex.
func IsHex(s string) bool {
	_, err := ParseHex(s)
	return err == nil
}

// Validate checks every entry and rejects an empty palette.
func (c Colors) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("%w: palette is empty", ErrInvalidColor)
	}
	for i, s := range c {
		if _, err := ParseHex(s); err != nil {
			return fmt.Errorf("color %d: %w", i, err)
		}
	}
	return nil
}
