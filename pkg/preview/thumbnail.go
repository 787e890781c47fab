// thumbnail.go - Downscaled copies of captured previews.
package preview

import (
	"image"

	"golang.org/x/image/draw"
)

// Thumbnail scales img to the given width, keeping the aspect ratio.
// A non-positive width or one not smaller than the source returns img unchanged.
func Thumbnail(img image.Image, width int) image.Image {
	b := img.Bounds()
	if width <= 0 || width >= b.Dx() {
		return img
	}

	height := max(b.Dy()*width/b.Dx(), 1)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
