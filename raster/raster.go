// Package raster is the 2-D drawing collaborator for the tiler: canvas
// allocation, marker and label drawing, and the crop/downsample step.
// It only knows about pixels, never about world coordinates or zooms.
package raster

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// NewCanvas allocates a w×h canvas filled with the background color.
func NewCanvas(w, h int, background color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	return img
}

// FillCircle draws a filled circle centered at (cx, cy). Pixels whose
// centers fall inside the radius are painted; the pixel under the center
// is always painted, so even sub-pixel radii leave a visible marker.
func FillCircle(img draw.Image, cx, cy, r float64, c color.Color) {
	bounds := img.Bounds()

	center := image.Pt(int(cx), int(cy))
	if center.In(bounds) {
		img.Set(center.X, center.Y, c)
	}

	minX := int(cx - r)
	maxX := int(cx + r + 1)
	minY := int(cy - r)
	maxY := int(cy + r + 1)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if !image.Pt(x, y).In(bounds) {
				continue
			}
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if dx*dx+dy*dy <= r*r {
				img.Set(x, y, c)
			}
		}
	}
}

// CropResize cuts the rectangle out of src and scales it to dim×dim
// with a Catmull-Rom filter, the antialiasing half of oversampled
// rendering.
func CropResize(src image.Image, rect image.Rectangle, dim int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, dim, dim))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, rect, xdraw.Src, nil)
	return dst
}
