package raster

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xob0t/bggen/pkg/gradient"
	"github.com/xob0t/bggen/pkg/preview"
	"github.com/xob0t/bggen/pkg/shapes"
)

var (
	_ preview.Surface   = (*Canvas)(nil)
	_ preview.ShapeHost = (*Canvas)(nil)
	_ preview.Mountable = (*Canvas)(nil)
)

func requireColorNear(t *testing.T, want color.RGBA, got color.Color) {
	t.Helper()
	c := color.RGBAModel.Convert(got).(color.RGBA)
	require.InDelta(t, want.R, c.R, 3)
	require.InDelta(t, want.G, c.G, 3)
	require.InDelta(t, want.B, c.B, 3)
}

func TestRenderSolid(t *testing.T) {
	img, err := Render(context.Background(), gradient.Spec([]string{"#336699"}), nil, Options{Width: 64, Height: 32})
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 64, 32), img.Bounds())
	requireColorNear(t, color.RGBA{0x33, 0x66, 0x99, 255}, img.At(32, 16))
	requireColorNear(t, color.RGBA{0x33, 0x66, 0x99, 255}, img.At(0, 0))
}

func TestRenderGradientEnds(t *testing.T) {
	img, err := Render(context.Background(), gradient.Spec([]string{"#000000", "#FFFFFF"}), nil, Options{Width: 200, Height: 10})
	require.NoError(t, err)

	left := color.RGBAModel.Convert(img.At(0, 5)).(color.RGBA)
	right := color.RGBAModel.Convert(img.At(199, 5)).(color.RGBA)
	require.Less(t, left.R, uint8(20))
	require.Greater(t, right.R, uint8(235))
}

func TestRenderShapeMarker(t *testing.T) {
	opts := Options{Width: 100, Height: 100, ShapeRadius: 10, ShapeColor: "#ffffff", ShapeAlpha: 1}
	img, err := Render(context.Background(), gradient.Spec([]string{"#000000"}),
		[]shapes.Shape{{Top: "50%", Left: "50%"}}, opts)
	require.NoError(t, err)

	// Centre of the marker is offset by the radius from its top-left corner.
	requireColorNear(t, color.RGBA{255, 255, 255, 255}, img.At(60, 60))
	requireColorNear(t, color.RGBA{0, 0, 0, 255}, img.At(20, 20))
}

func TestRenderErrors(t *testing.T) {
	_, err := Render(context.Background(), "not a gradient", nil, Options{Width: 8, Height: 8})
	require.ErrorIs(t, err, gradient.ErrMalformedSpec)

	_, err = Render(context.Background(), gradient.Spec([]string{"#000000"}),
		[]shapes.Shape{{Top: "bad", Left: "10%"}}, Options{Width: 8, Height: 8})
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Render(ctx, gradient.Spec([]string{"#000000"}), nil, Options{Width: 8, Height: 8})
	require.ErrorIs(t, err, context.Canceled)
}

func TestCanvasCapture(t *testing.T) {
	c := NewCanvas(Options{Width: 16, Height: 16})
	require.True(t, c.Mounted())

	_, err := c.Capture(context.Background())
	require.ErrorIs(t, err, ErrNoBackground)

	c.SetBackground(gradient.Spec([]string{"#ff0000"}))
	c.SetShapes([]shapes.Shape{{Top: "10%", Left: "10%"}})
	require.Equal(t, "linear-gradient(to right, #ff0000)", c.Background())

	img, err := c.Capture(context.Background())
	require.NoError(t, err)
	requireColorNear(t, color.RGBA{255, 0, 0, 255}, img.At(15, 0))
}

func TestNilCanvasUnmounted(t *testing.T) {
	var c *Canvas
	require.False(t, c.Mounted())
	require.False(t, preview.Available(c))
}

func TestOptionsNormalized(t *testing.T) {
	o := Options{Width: 200, Height: 100}.normalized()
	require.InDelta(t, 5.0, o.ShapeRadius, 1e-9)
	require.Equal(t, "#ffffff", o.ShapeColor)
	require.InDelta(t, 0.6, o.ShapeAlpha, 1e-9)
}
