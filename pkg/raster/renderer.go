// renderer.go - Software rasteriser for gradient backgrounds.
// Uses a layered approach: gradient background -> shape markers.
package raster

import (
	"context"
	"fmt"
	"image"
	"image/draw"

	"github.com/gogpu/gg"

	"github.com/xob0t/bggen/pkg/gradient"
	"github.com/xob0t/bggen/pkg/palette"
	"github.com/xob0t/bggen/pkg/shapes"
)

// Options controls the raster size and marker style.
type Options struct {
	Width       int
	Height      int
	ShapeRadius float64 // pixels; 0 means 5% of the shorter side
	ShapeColor  string  // "#rrggbb"; empty means white
	ShapeAlpha  float64 // 0 means 0.6
}

// DefaultOptions matches the 720p canvas preset.
func DefaultOptions() Options {
	return Options{Width: 1280, Height: 720}
}

func (o Options) normalized() Options {
	o.Width = max(o.Width, 1)
	o.Height = max(o.Height, 1)
	if o.ShapeRadius <= 0 {
		o.ShapeRadius = float64(min(o.Width, o.Height)) * 0.05
	}
	if o.ShapeColor == "" {
		o.ShapeColor = "#ffffff"
	}
	if o.ShapeAlpha <= 0 || o.ShapeAlpha > 1 {
		o.ShapeAlpha = 0.6
	}
	return o
}

// Render draws the gradient described by spec with markers on top.
func Render(ctx context.Context, spec string, markers []shapes.Shape, opts Options) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts = opts.normalized()

	colors, err := gradient.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	defer dc.Close()

	if err := drawBackground(dc, colors); err != nil {
		return nil, err
	}
	if err := drawShapes(dc, markers, opts); err != nil {
		return nil, err
	}
	if err := dc.FlushGPU(); err != nil {
		return nil, fmt.Errorf("flush: %w", err)
	}

	return toRGBA(dc.Image()), nil
}

// drawBackground fills the whole context with evenly spaced left-to-right stops.
func drawBackground(dc *gg.Context, colors palette.Colors) error {
	w := float64(dc.Width())
	h := float64(dc.Height())

	brush := gg.NewLinearGradientBrush(0, 0, w, 0)
	if len(colors) == 1 {
		c := gg.Hex(colors[0])
		brush.AddColorStop(0, c).AddColorStop(1, c)
	} else {
		last := float64(len(colors) - 1)
		for i, c := range colors {
			brush.AddColorStop(float64(i)/last, gg.Hex(c))
		}
	}

	dc.SetFillBrush(brush)
	dc.DrawRectangle(0, 0, w, h)
	if err := dc.Fill(); err != nil {
		return fmt.Errorf("fill background: %w", err)
	}
	return nil
}

// drawShapes places one circle per marker. Offsets position the marker's
// top-left corner, like absolutely positioned elements.
func drawShapes(dc *gg.Context, markers []shapes.Shape, opts Options) error {
	if len(markers) == 0 {
		return nil
	}

	base, err := palette.ParseHex(opts.ShapeColor)
	if err != nil {
		return fmt.Errorf("shape color: %w", err)
	}
	dc.SetRGBA(float64(base.R)/255, float64(base.G)/255, float64(base.B)/255, opts.ShapeAlpha)

	w := float64(dc.Width())
	h := float64(dc.Height())
	r := opts.ShapeRadius

	for i, m := range markers {
		top, left, err := m.Fractions()
		if err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
		dc.DrawCircle(left*w+r, top*h+r, r)
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("fill shape %d: %w", i, err)
		}
	}
	return nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	dst := image.NewRGBA(img.Bounds())
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}
