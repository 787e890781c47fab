// Package raster renders gradient backgrounds and shape markers to bitmaps.
package raster

import (
	"context"
	"errors"
	"image"
	"sync"

	"github.com/xob0t/bggen/pkg/shapes"
)

// ErrNoBackground is returned by Capture before any background was set.
var ErrNoBackground = errors.New("no background set")

// Canvas is an off-screen preview surface. It remembers the last background
// spec and markers and rasterises them on Capture.
//
// Capture may run concurrently with SetBackground/SetShapes.
type Canvas struct {
	opts Options

	mu     sync.RWMutex
	spec   string
	shapes []shapes.Shape
}

// NewCanvas creates an empty canvas.
func NewCanvas(opts Options) *Canvas {
	return &Canvas{opts: opts.normalized()}
}

// Options returns the effective raster options.
func (c *Canvas) Options() Options {
	return c.opts
}

// Mounted reports whether the canvas exists. A nil *Canvas is unmounted.
func (c *Canvas) Mounted() bool {
	return c != nil
}

// SetBackground stores the gradient spec.
func (c *Canvas) SetBackground(spec string) {
	c.mu.Lock()
	c.spec = spec
	c.mu.Unlock()
}

// SetShapes replaces the markers drawn over the background.
func (c *Canvas) SetShapes(list []shapes.Shape) {
	c.mu.Lock()
	c.shapes = shapes.Clone(list)
	c.mu.Unlock()
}

// Background returns the current gradient spec.
func (c *Canvas) Background() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.spec
}

// Capture renders a snapshot of the current background and markers.
func (c *Canvas) Capture(ctx context.Context) (image.Image, error) {
	c.mu.RLock()
	spec := c.spec
	markers := shapes.Clone(c.shapes)
	c.mu.RUnlock()

	if spec == "" {
		return nil, ErrNoBackground
	}
	return Render(ctx, spec, markers, c.opts)
}
