package tagtiles

import (
	"sort"

	"github.com/paulmach/orb/maptile"
)

// labelSelector decides which tag names are drawn as text. Below
// ZoomTextShow a metatile footprint shows at most LabelsPerTile names,
// picked by weight; at or above it every name is drawn and selection is
// skipped entirely.
type labelSelector struct {
	grid  *Grid
	index *Index
	cfg   Config
}

// shownNames returns the names to annotate on the metatile at
// metatile-grid coordinates (mx, my). The set is the union of the
// footprint's own selection and its eight neighbours at the same
// granularity, so a name picked next door still renders when its marker
// spills across the seam. Returns nil at/above ZoomTextShow.
func (s *labelSelector) shownNames(mx, my int64, zoom maptile.Zoom) map[string]struct{} {
	if zoom >= s.cfg.ZoomTextShow {
		return nil
	}
	shown := make(map[string]struct{})
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			s.selectFootprint(mx+dx, my+dy, zoom, shown)
		}
	}
	return shown
}

// selectFootprint ranks the tags inside one metatile footprint (no
// margin) by weight, name ascending on ties, and adds the top
// LabelsPerTile positive-weight names to shown. The tie-break is fixed
// so repeated runs produce identical tiles.
func (s *labelSelector) selectFootprint(mx, my int64, zoom maptile.Zoom, shown map[string]struct{}) {
	if mx < 0 || my < 0 {
		return
	}
	span := s.cfg.MetatileSize
	window := s.grid.MetatileRect(uint32(mx)*span, uint32(my)*span, zoom, false)
	tags := s.index.Query(window)

	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Weight != tags[j].Weight {
			return tags[i].Weight > tags[j].Weight
		}
		return tags[i].Name < tags[j].Name
	})

	kept := 0
	for _, t := range tags {
		if kept >= s.cfg.LabelsPerTile {
			break
		}
		if t.Weight <= 0 {
			break
		}
		shown[t.Name] = struct{}{}
		kept++
	}
}
