// Package session holds the state of one background generator widget:
// the palette, the shape layout and the preview surface they are shown on.
//
// A Session is driven from one event path in the browser, but every method is
// safe for concurrent use so HTTP requests sharing a cookie may overlap.
// Exports may overlap with edits and with each other.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/xob0t/bggen/pkg/export"
	"github.com/xob0t/bggen/pkg/gradient"
	"github.com/xob0t/bggen/pkg/palette"
	"github.com/xob0t/bggen/pkg/preview"
	"github.com/xob0t/bggen/pkg/shapes"
)

// Session owns a ColorList and a ShapeList.
type Session struct {
	rng      palette.Source
	surface  preview.Surface
	exporter *export.Exporter

	mu     sync.RWMutex
	colors palette.Colors
	shapes []shapes.Shape
}

// Option configures a Session.
type Option func(*Session)

// WithSource sets the random source. Default is an unseeded PCG source.
func WithSource(rng palette.Source) Option {
	return func(s *Session) { s.rng = rng }
}

// WithSurface attaches the preview surface at creation time.
func WithSurface(surface preview.Surface) Option {
	return func(s *Session) { s.surface = surface }
}

// WithExporter sets the exporter used by Export.
func WithExporter(e *export.Exporter) Option {
	return func(s *Session) { s.exporter = e }
}

// New creates a session with the default single-white palette and no shapes.
// If a surface is attached it immediately shows the initial gradient.
func New(opts ...Option) *Session {
	s := &Session{colors: palette.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = palette.NewSource(randomSeed())
	}
	s.render()
	return s
}

// Attach sets (or replaces) the preview surface and renders the current state on it.
// Passing nil detaches the surface.
func (s *Session) Attach(surface preview.Surface) {
	s.mu.Lock()
	s.surface = surface
	s.mu.Unlock()
	s.render()
}

// Surface returns the attached surface, which may be nil.
func (s *Session) Surface() preview.Surface {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.surface
}

// Colors returns a copy of the current palette.
func (s *Session) Colors() palette.Colors {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.colors.Clone()
}

// Shapes returns a copy of the current shape layout.
func (s *Session) Shapes() []shapes.Shape {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return shapes.Clone(s.shapes)
}

// Gradient returns the gradient spec for the current palette.
func (s *Session) Gradient() string {
	return gradient.Spec(s.Colors())
}

// Generate replaces the palette, updates the gradient, then replaces the shapes.
// The random source is only drawn from under mu.
func (s *Session) Generate() {
	s.mu.Lock()
	colors := palette.Generate(s.rng)
	s.colors = colors
	surface := s.surface
	s.mu.Unlock()
	gradient.Apply(colors, surface)

	s.mu.Lock()
	layout := shapes.Generate(s.rng)
	s.shapes = layout
	s.mu.Unlock()
	s.renderShapes(surface, layout)
}

// ErrIndexOutOfRange is returned by TrySetColorAt for indices outside the palette.
var ErrIndexOutOfRange = errors.New("color index out of range")

// SetColorAt replaces the colour at index and updates the gradient.
// Shapes are left as they are. index must be within [0, len(Colors())); an
// index outside that range is a programming error and panics.
func (s *Session) SetColorAt(index int, c string) {
	if err := s.TrySetColorAt(index, c); err != nil {
		panic("session: " + err.Error())
	}
}

// TrySetColorAt is SetColorAt for indices that come from untrusted input.
// The range check and the update happen atomically.
func (s *Session) TrySetColorAt(index int, c string) error {
	s.mu.Lock()
	if index < 0 || index >= len(s.colors) {
		n := len(s.colors)
		s.mu.Unlock()
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, index, n)
	}
	updated := s.colors.Clone()
	updated[index] = c
	s.colors = updated
	surface := s.surface
	s.mu.Unlock()

	gradient.Apply(updated, surface)
	return nil
}

// Export saves the surface as background.png through the session's exporter.
// Without an exporter or surface it does nothing.
func (s *Session) Export(ctx context.Context) export.Outcome {
	if s.exporter == nil {
		return export.Outcome{Status: export.Skipped}
	}
	return s.exporter.Export(ctx, s.Surface())
}

// ExportAsync is Export in the background; see export.Exporter.Go.
func (s *Session) ExportAsync(ctx context.Context) <-chan export.Outcome {
	if s.exporter == nil {
		ch := make(chan export.Outcome, 1)
		ch <- export.Outcome{Status: export.Skipped}
		close(ch)
		return ch
	}
	return s.exporter.Go(ctx, s.Surface())
}

func (s *Session) render() {
	s.mu.RLock()
	surface := s.surface
	colors := s.colors.Clone()
	layout := shapes.Clone(s.shapes)
	s.mu.RUnlock()

	gradient.Apply(colors, surface)
	s.renderShapes(surface, layout)
}

func (s *Session) renderShapes(surface preview.Surface, layout []shapes.Shape) {
	if !preview.Available(surface) {
		return
	}
	if host, ok := surface.(preview.ShapeHost); ok {
		host.SetShapes(layout)
	}
}
