package tagtiles

import (
	"image"

	"github.com/paulmach/orb/maptile"
)

// MetatileJob hands a rendered metatile canvas to the slice workers.
// Ownership of the canvas transfers with the job; the renderer must not
// touch it afterwards.
type MetatileJob struct {
	Canvas *image.NRGBA
	MetaX  uint32
	MetaY  uint32
	Zoom   maptile.Zoom
}

// TileResponse is one finished, encoded tile on its way to the sink.
type TileResponse struct {
	Tile maptile.Tile
	Data []byte
}
