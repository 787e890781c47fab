// Package preview defines the surface a background is previewed on and
// captured from at export time.
package preview

import (
	"context"
	"image"

	"github.com/xob0t/bggen/pkg/shapes"
)

// Surface is an opaque handle to the preview element.
type Surface interface {
	// SetBackground applies a CSS linear-gradient spec as the background.
	SetBackground(spec string)
	// Capture rasterises what the surface currently shows.
	Capture(ctx context.Context) (image.Image, error)
}

// ShapeHost is implemented by surfaces that render shape markers.
type ShapeHost interface {
	SetShapes(list []shapes.Shape)
}

// Mountable is implemented by surfaces whose underlying element can be absent,
// e.g. before the DOM node exists.
type Mountable interface {
	Mounted() bool
}

// Available reports whether s can be drawn on or captured.
func Available(s Surface) bool {
	if s == nil {
		return false
	}
	if m, ok := s.(Mountable); ok {
		return m.Mounted()
	}
	return true
}
