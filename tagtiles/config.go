package tagtiles

import (
	"fmt"
	"image/color"

	"github.com/paulmach/orb/maptile"
)

// Config carries every knob the pipeline needs. It is built once and
// shared read-only between the grid, the label selector, the renderer
// and the pyramid driver.
type Config struct {
	// MaxZoom is the deepest zoom level to generate, inclusive.
	MaxZoom maptile.Zoom

	// TileDim is the edge length of a finished tile in pixels.
	TileDim int

	// Oversample renders metatiles at TileDim*Oversample per tile and
	// downsamples each crop, trading render time for antialiasing.
	Oversample int

	// MetatileSize is the number of tiles per metatile edge.
	MetatileSize uint32

	// Shift pads the world extent on every side and widens marker
	// queries so circles crossing a tile border render on both sides.
	Shift float64

	// ZoomTextShow is the zoom level at which every tag name is drawn.
	ZoomTextShow maptile.Zoom

	// LabelsPerTile caps how many names are drawn per metatile footprint
	// below ZoomTextShow.
	LabelsPerTile int

	Background color.NRGBA
	Marker     color.NRGBA
	Label      color.NRGBA
}

func DefaultConfig() Config {
	return Config{
		MaxZoom:       5,
		TileDim:       256,
		Oversample:    2,
		MetatileSize:  8,
		Shift:         10,
		ZoomTextShow:  7,
		LabelsPerTile: 10,
		Background:    color.NRGBA{R: 240, G: 240, B: 240, A: 255},
		Marker:        color.NRGBA{R: 122, G: 176, B: 42, A: 255},
		Label:         color.NRGBA{A: 255},
	}
}

func (c Config) Validate() error {
	if c.TileDim <= 0 {
		return fmt.Errorf("tile dimension must be positive, got %d", c.TileDim)
	}
	if c.Oversample <= 0 {
		return fmt.Errorf("oversample factor must be positive, got %d", c.Oversample)
	}
	if c.MetatileSize == 0 {
		return fmt.Errorf("metatile size must be positive")
	}
	if c.Shift < 0 {
		return fmt.Errorf("shift must not be negative, got %v", c.Shift)
	}
	if c.LabelsPerTile < 0 {
		return fmt.Errorf("labels per tile must not be negative, got %d", c.LabelsPerTile)
	}
	return nil
}

// renderDim is the pixel edge length of one tile on the oversized
// metatile canvas, before downsampling.
func (c Config) renderDim() int {
	return c.TileDim * c.Oversample
}

// fontSize returns the label size in canvas pixels for a zoom level.
// Deeper zooms shrink the text; the floor keeps deep levels readable.
func (c Config) fontSize(zoom maptile.Zoom) float64 {
	size := 25 - 2*int(zoom)
	if size < 9 {
		size = 9
	}
	return float64(size * c.Oversample)
}
