package tagtiles

import (
	"image"
	"sort"

	"github.com/paulmach/orb/maptile"

	"github.com/tagatlas/go-tagtiles/raster"
)

// minMarkerRadius is in finished-tile pixels; the renderer scales it by
// the oversample factor so markers survive the downsample.
const minMarkerRadius = 0.5

// Renderer draws one metatile at a time. It owns no mutable state, so a
// single Renderer is safe to share; each call allocates and returns a
// fresh canvas that the caller owns from then on.
type Renderer struct {
	grid      *Grid
	index     *Index
	labels    *labelSelector
	maxWeight float64
	cfg       Config
}

func NewRenderer(grid *Grid, index *Index, maxWeight float64, cfg Config) *Renderer {
	return &Renderer{
		grid:      grid,
		index:     index,
		labels:    &labelSelector{grid: grid, index: index, cfg: cfg},
		maxWeight: maxWeight,
		cfg:       cfg,
	}
}

// RenderMetatile renders the metatile whose lower-corner tile is
// (metaX, metaY) at the given zoom and returns the oversized canvas plus
// the number of tags that landed on it. Markers are drawn for every tag
// matched with margin; labels go on strictly afterwards so no circle
// ever covers text. Tags render in name order to keep output bytes
// reproducible across runs.
func (r *Renderer) RenderMetatile(metaX, metaY uint32, zoom maptile.Zoom) (*image.NRGBA, int) {
	span := r.cfg.MetatileSize
	edge := r.cfg.renderDim() * int(span)
	canvas := raster.NewCanvas(edge, edge, r.cfg.Background)

	tags := r.index.Query(r.grid.MetatileRect(metaX, metaY, zoom, true))
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })

	shown := r.labels.shownNames(int64(metaX/span), int64(metaY/span), zoom)

	for _, t := range tags {
		px, py := r.grid.WorldToPixel(t.Position, metaX, metaY, zoom)
		raster.FillCircle(canvas, px, py, r.markerRadius(t, zoom), r.cfg.Marker)
	}

	for _, t := range tags {
		if zoom < r.cfg.ZoomTextShow {
			if _, ok := shown[t.Name]; !ok {
				continue
			}
		}
		px, py := r.grid.WorldToPixel(t.Position, metaX, metaY, zoom)
		raster.DrawLabel(canvas, t.Name, px, py, r.cfg.fontSize(zoom), r.cfg.Label)
	}

	return canvas, len(tags)
}

// markerRadius grows with the tag's share of the maximum weight and with
// zoom, floored at a visible minimum. With no positive weight anywhere
// the whole dataset renders at the constant minimum instead of dividing
// by zero.
func (r *Renderer) markerRadius(t *Tag, zoom maptile.Zoom) float64 {
	radius := minMarkerRadius
	if r.maxWeight > 0 && t.Weight > 0 {
		scaled := float64(zoom) * t.Weight / r.maxWeight
		if scaled > radius {
			radius = scaled
		}
	}
	return radius * float64(r.cfg.Oversample)
}
