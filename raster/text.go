package raster

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// DrawLabel draws text with its baseline anchored at (x, y) in the face
// for the given size. Text landing partially outside the canvas is
// clipped by the drawer, which is what tile seams rely on.
func DrawLabel(img draw.Image, text string, x, y float64, size float64, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: Face(size),
		Dot:  fixed.P(int(x), int(y)),
	}
	d.DrawString(text)
}
