package tagtiles

import (
	"github.com/paulmach/orb"
)

// WeightUnranked marks tags whose weight column was absent or not a
// number. Unranked tags still get markers but are never picked as labels.
const WeightUnranked = -1.0

// Tag is one named point on the plane. Position and name identify it;
// Weight drives marker size and label ranking. Attrs carries every input
// column unparsed, keyed by column name.
type Tag struct {
	Name     string
	Position orb.Point
	Weight   float64
	Attrs    map[string]string
}

// Point implements orb.Pointer so tags can go straight into a quadtree.
func (t *Tag) Point() orb.Point {
	return t.Position
}

// maxWeight returns the largest weight in the set, or 0 when the set is
// empty or holds only unranked/non-positive weights.
func maxWeight(tags []*Tag) float64 {
	max := 0.0
	for _, t := range tags {
		if t.Weight > max {
			max = t.Weight
		}
	}
	return max
}
