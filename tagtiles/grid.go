package tagtiles

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

// ErrZeroExtent means every point is coincident and the shift padding is
// zero, so there is no plane to scale tiles onto.
var ErrZeroExtent = errors.New("tagtiles: world extent has zero size")

// Grid holds the coordinate model: the padded world extent and the
// transforms from world space to tile and pixel space. The pyramid is
// square with edge MapSize, anchored at Origin (the padded lower-left
// corner), so tile (0,0) at zoom z always starts at Origin.
type Grid struct {
	Extent  orb.Bound
	Origin  orb.Point
	MapSize float64

	cfg Config
}

// NewGrid derives the grid from the full point set. The extent is the
// bounding box of all points padded by cfg.Shift on every side; with no
// points the extent degenerates to the padding around the world origin,
// which still yields a renderable (empty) pyramid.
func NewGrid(tags []*Tag, cfg Config) (*Grid, error) {
	var minX, minY, maxX, maxY float64
	for i, t := range tags {
		x, y := t.Position.X(), t.Position.Y()
		if i == 0 {
			minX, maxX = x, x
			minY, maxY = y, y
			continue
		}
		minX = math.Min(minX, x)
		maxX = math.Max(maxX, x)
		minY = math.Min(minY, y)
		maxY = math.Max(maxY, y)
	}

	extent := orb.Bound{
		Min: orb.Point{minX - cfg.Shift, minY - cfg.Shift},
		Max: orb.Point{maxX + cfg.Shift, maxY + cfg.Shift},
	}

	mapSize := math.Max(extent.Max.X()-extent.Min.X(), extent.Max.Y()-extent.Min.Y())
	if mapSize <= 0 {
		return nil, ErrZeroExtent
	}

	return &Grid{
		Extent:  extent,
		Origin:  extent.Min,
		MapSize: mapSize,
		cfg:     cfg,
	}, nil
}

// TileWorldSize is the world-space edge length of one tile at a zoom.
func (g *Grid) TileWorldSize(zoom maptile.Zoom) float64 {
	return g.MapSize / float64(uint64(1)<<zoom)
}

// TileRect is the world rectangle covered by tile (x,y) at zoom. With
// margin the rectangle grows by Shift on every side so markers centered
// just outside still intersect. The same margin is applied to every tile,
// keeping boundary-crossing markers consistent between neighbours.
func (g *Grid) TileRect(x, y uint32, zoom maptile.Zoom, withMargin bool) orb.Bound {
	return g.rect(x, y, 1, zoom, withMargin)
}

// MetatileRect is the world rectangle of the size×size tile block whose
// lower-corner tile is (x,y).
func (g *Grid) MetatileRect(x, y uint32, zoom maptile.Zoom, withMargin bool) orb.Bound {
	return g.rect(x, y, g.cfg.MetatileSize, zoom, withMargin)
}

func (g *Grid) rect(x, y, span uint32, zoom maptile.Zoom, withMargin bool) orb.Bound {
	tileWorld := g.TileWorldSize(zoom)
	margin := 0.0
	if withMargin {
		margin = g.cfg.Shift
	}
	minX := g.Origin.X() + float64(x)*tileWorld
	minY := g.Origin.Y() + float64(y)*tileWorld
	return orb.Bound{
		Min: orb.Point{minX - margin, minY - margin},
		Max: orb.Point{minX + float64(span)*tileWorld + margin, minY + float64(span)*tileWorld + margin},
	}
}

// WorldToPixel maps a world point onto the metatile canvas whose
// lower-corner tile is (metaX, metaY). One tile spans renderDim pixels.
func (g *Grid) WorldToPixel(p orb.Point, metaX, metaY uint32, zoom maptile.Zoom) (float64, float64) {
	tileWorld := g.TileWorldSize(zoom)
	dim := float64(g.cfg.renderDim())
	px := (p.X() - (g.Origin.X() + float64(metaX)*tileWorld)) / tileWorld * dim
	py := (p.Y() - (g.Origin.Y() + float64(metaY)*tileWorld)) / tileWorld * dim
	return px, py
}

// Normalized maps a world point to [0,1]×[0,1] relative to the origin
// and MapSize, for lookups outside the tiling itself.
func (g *Grid) Normalized(p orb.Point) (float64, float64) {
	return (p.X() - g.Origin.X()) / g.MapSize, (p.Y() - g.Origin.Y()) / g.MapSize
}

// TileAt returns the tile whose unpadded rectangle owns a world point at
// a zoom level, clamped to the grid.
func (g *Grid) TileAt(p orb.Point, zoom maptile.Zoom) maptile.Tile {
	u, v := g.Normalized(p)
	n := uint64(1) << zoom
	x := clampTileCoord(u, n)
	y := clampTileCoord(v, n)
	return maptile.New(x, y, zoom)
}

func clampTileCoord(norm float64, n uint64) uint32 {
	i := int64(math.Floor(norm * float64(n)))
	if i < 0 {
		i = 0
	}
	if i >= int64(n) {
		i = int64(n) - 1
	}
	return uint32(i)
}
