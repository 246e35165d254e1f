package tagtiles

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

// TileOutputter persists finished tiles. CreateTiles prepares the sink
// before any tile is written; Save may be called once per tile; Close
// flushes and releases the sink.
type TileOutputter interface {
	CreateTiles() error
	Save(tile maptile.Tile, data []byte) error
	Close() error
}

// SpatialMetadataAssigner is implemented by sinks that record
// tileset-level metadata (world bounds, zoom range) alongside the tiles.
type SpatialMetadataAssigner interface {
	AssignSpatialMetadata(bound orb.Bound, minZoom, maxZoom maptile.Zoom) error
}
