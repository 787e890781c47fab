//go:build js && wasm

package main

import (
	"context"
	"image"
	"sync"
	"syscall/js"

	"github.com/xob0t/bggen/pkg/raster"
	"github.com/xob0t/bggen/pkg/shapes"
)

// domSurface is the preview <div>. The browser paints the CSS gradient;
// Capture rasterises the same spec and markers with the software renderer.
type domSurface struct {
	el   js.Value
	opts raster.Options

	mu     sync.RWMutex
	spec   string
	shapes []shapes.Shape
}

func newDOMSurface(el js.Value, opts raster.Options) *domSurface {
	return &domSurface{el: el, opts: opts}
}

// Mounted reports whether the element is attached to the document.
func (s *domSurface) Mounted() bool {
	if s == nil || s.el.IsUndefined() || s.el.IsNull() {
		return false
	}
	return s.el.Get("isConnected").Bool()
}

func (s *domSurface) SetBackground(spec string) {
	s.mu.Lock()
	s.spec = spec
	s.mu.Unlock()
	s.el.Get("style").Set("backgroundImage", spec)
}

func (s *domSurface) SetShapes(list []shapes.Shape) {
	s.mu.Lock()
	s.shapes = shapes.Clone(list)
	s.mu.Unlock()

	for _, old := range children(s.el, ".shape") {
		old.Call("remove")
	}
	for _, sh := range list {
		d := el("div")
		d.Set("className", "shape")
		style := d.Get("style")
		style.Set("top", sh.Top)
		style.Set("left", sh.Left)
		s.el.Call("appendChild", d)
	}
}

func (s *domSurface) Capture(ctx context.Context) (image.Image, error) {
	s.mu.RLock()
	spec := s.spec
	markers := shapes.Clone(s.shapes)
	s.mu.RUnlock()

	if spec == "" {
		return nil, raster.ErrNoBackground
	}
	return raster.Render(ctx, spec, markers, s.opts)
}

func children(parent js.Value, selector string) []js.Value {
	nodes := parent.Call("querySelectorAll", selector)
	out := make([]js.Value, nodes.Length())
	for i := range out {
		out[i] = nodes.Index(i)
	}
	return out
}

// anchorDownloader triggers a browser download through a temporary <a download>.
type anchorDownloader struct{}

func (anchorDownloader) Download(_ context.Context, filename, dataURI string) error {
	a := el("a")
	a.Set("href", dataURI)
	a.Set("download", filename)
	a.Get("style").Set("display", "none")
	body := doc.Get("body")
	body.Call("appendChild", a)
	a.Call("click")
	body.Call("removeChild", a)
	return nil
}
