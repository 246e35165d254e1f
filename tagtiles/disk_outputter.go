package tagtiles

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/paulmach/orb/maptile"
)

type diskOutputter struct {
	root     string
	format   string
	hasTiles bool
}

// NewDiskOutputter writes tiles as flat {x}_{y}_{z}.png files under
// root. CreateTiles recreates root from scratch: a pyramid run never
// merges with leftovers from a previous run.
func NewDiskOutputter(root string) (*diskOutputter, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &diskOutputter{
		root:   abs,
		format: "png",
	}, nil
}

func (o *diskOutputter) CreateTiles() error {
	if o.hasTiles {
		return nil
	}

	if err := os.RemoveAll(o.root); err != nil {
		return fmt.Errorf("clearing tile dir %s: %w", o.root, err)
	}
	if err := os.MkdirAll(o.root, 0755); err != nil {
		return fmt.Errorf("creating tile dir %s: %w", o.root, err)
	}

	o.hasTiles = true
	return nil
}

func (o *diskOutputter) Save(tile maptile.Tile, data []byte) error {
	name := fmt.Sprintf("%d_%d_%d.%s", tile.X, tile.Y, tile.Z, o.format)
	path := filepath.Join(o.root, name)

	fh, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	if _, err := fh.Write(data); err != nil {
		fh.Close()
		return err
	}

	return fh.Close()
}

func (o *diskOutputter) Close() error {
	return nil
}
