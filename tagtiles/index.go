package tagtiles

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/quadtree"
)

// Index answers window queries over the tag set. It is built once per
// run and read-only afterwards, so concurrent queries need no locking.
type Index struct {
	tree *quadtree.Quadtree
}

// NewIndex builds a quadtree over the grid's padded extent. Every tag
// lies strictly inside the padded extent, so inserts cannot fail for
// in-extent data; a failure indicates the grid and tags disagree.
func NewIndex(tags []*Tag, grid *Grid) (*Index, error) {
	tree := quadtree.New(grid.Extent)
	for _, t := range tags {
		if err := tree.Add(t); err != nil {
			return nil, fmt.Errorf("indexing tag %q at %v: %w", t.Name, t.Position, err)
		}
	}
	return &Index{tree: tree}, nil
}

// Query returns every tag inside the window, inclusive of its edges.
// Order is unspecified; each tag appears at most once.
func (ix *Index) Query(window orb.Bound) []*Tag {
	pointers := ix.tree.InBound(nil, window)
	tags := make([]*Tag, 0, len(pointers))
	for _, p := range pointers {
		tags = append(tags, p.(*Tag))
	}
	return tags
}
