// Package tagtiles renders a set of named, weighted points on a plane
// into a pyramid of raster map tiles. Tiles are produced in metatile
// batches: an oversized canvas covering a block of tiles is drawn once,
// then sliced, downsampled and persisted while the next block renders.
package tagtiles

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"sync"

	"github.com/paulmach/orb/maptile"
	"github.com/schollz/progressbar/v3"

	"github.com/tagatlas/go-tagtiles/raster"
)

// Pyramid drives a full tileset generation run. The grid, index and
// renderer are built once at construction and are read-only afterwards.
type Pyramid struct {
	cfg      Config
	grid     *Grid
	index    *Index
	renderer *Renderer
	byName   map[string]*Tag
}

func NewPyramid(tags []*Tag, cfg Config) (*Pyramid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	grid, err := NewGrid(tags, cfg)
	if err != nil {
		return nil, err
	}

	index, err := NewIndex(tags, grid)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*Tag, len(tags))
	for _, t := range tags {
		byName[t.Name] = t
	}

	return &Pyramid{
		cfg:      cfg,
		grid:     grid,
		index:    index,
		renderer: NewRenderer(grid, index, maxWeight(tags), cfg),
		byName:   byName,
	}, nil
}

func (p *Pyramid) Grid() *Grid {
	return p.grid
}

// Locate returns the normalized [0,1]×[0,1] position of a named tag on
// the full map, for search use cases outside the tiling itself.
func (p *Pyramid) Locate(name string) (u, v float64, ok bool) {
	t, ok := p.byName[name]
	if !ok {
		return 0, 0, false
	}
	u, v = p.grid.Normalized(t.Position)
	return u, v, true
}

// Generate renders every tile for zooms 0..MaxZoom into the outputter.
// Metatiles render sequentially on the calling goroutine; slicing,
// downsampling and PNG encoding fan out over a bounded worker pool whose
// results a single goroutine persists. Generate returns only after every
// outstanding tile is saved and the sink is closed; the first failure
// anywhere fails the run.
func (p *Pyramid) Generate(out TileOutputter, workers int) error {
	if workers < 1 {
		workers = 1
	}

	if err := out.CreateTiles(); err != nil {
		return fmt.Errorf("preparing tile output: %w", err)
	}
	if assigner, ok := out.(SpatialMetadataAssigner); ok {
		if err := assigner.AssignSpatialMetadata(p.grid.Extent, 0, p.cfg.MaxZoom); err != nil {
			return fmt.Errorf("assigning tileset metadata: %w", err)
		}
	}

	jobs := make(chan *MetatileJob, workers)
	results := make(chan *TileResponse, workers*int(p.cfg.MetatileSize))
	failures := &failureState{}

	sliceWG := &sync.WaitGroup{}
	for w := 0; w < workers; w++ {
		sliceWG.Add(1)
		go func() {
			defer sliceWG.Done()
			for job := range jobs {
				p.sliceMetatile(job, results, failures)
			}
		}()
	}

	saveWG := &sync.WaitGroup{}
	saveWG.Add(1)
	go func() {
		defer saveWG.Done()
		for res := range results {
			if err := out.Save(res.Tile, res.Data); err != nil {
				failures.record(fmt.Errorf("saving tile %d_%d_%d: %w", res.Tile.X, res.Tile.Y, res.Tile.Z, err))
			}
		}
	}()

	bar := progressbar.Default(p.countMetatiles(), "rendering metatiles")

	for zoom := maptile.Zoom(0); zoom <= p.cfg.MaxZoom; zoom++ {
		gridSize := uint32(1) << zoom
		matched := 0
		for metaX := uint32(0); metaX < gridSize; metaX += p.cfg.MetatileSize {
			for metaY := uint32(0); metaY < gridSize; metaY += p.cfg.MetatileSize {
				canvas, count := p.renderer.RenderMetatile(metaX, metaY, zoom)
				matched += count
				jobs <- &MetatileJob{Canvas: canvas, MetaX: metaX, MetaY: metaY, Zoom: zoom}
				_ = bar.Add(1)
			}
		}
		slog.Info("generated zoom level", "zoom", zoom, "tiles", uint64(gridSize)*uint64(gridSize), "matched", matched)
	}

	close(jobs)
	sliceWG.Wait()
	close(results)
	saveWG.Wait()

	if err := out.Close(); err != nil {
		failures.record(fmt.Errorf("closing tile output: %w", err))
	}

	return failures.err()
}

// sliceMetatile crops each tile out of the metatile canvas, skipping
// coordinates past the edge of the zoom level's grid, downsamples the
// crop to the finished tile size and queues the encoded bytes.
func (p *Pyramid) sliceMetatile(job *MetatileJob, results chan<- *TileResponse, failures *failureState) {
	dim := p.cfg.renderDim()
	gridSize := uint32(1) << job.Zoom

	for dx := uint32(0); dx < p.cfg.MetatileSize; dx++ {
		x := job.MetaX + dx
		if x >= gridSize {
			break
		}
		for dy := uint32(0); dy < p.cfg.MetatileSize; dy++ {
			y := job.MetaY + dy
			if y >= gridSize {
				break
			}

			rect := image.Rect(int(dx)*dim, int(dy)*dim, int(dx+1)*dim, int(dy+1)*dim)
			tileImg := raster.CropResize(job.Canvas, rect, p.cfg.TileDim)

			var buf bytes.Buffer
			if err := png.Encode(&buf, tileImg); err != nil {
				failures.record(fmt.Errorf("encoding tile %d_%d_%d: %w", x, y, job.Zoom, err))
				continue
			}

			results <- &TileResponse{
				Tile: maptile.New(x, y, job.Zoom),
				Data: buf.Bytes(),
			}
		}
	}
}

func (p *Pyramid) countMetatiles() int64 {
	span := uint64(p.cfg.MetatileSize)
	total := int64(0)
	for zoom := maptile.Zoom(0); zoom <= p.cfg.MaxZoom; zoom++ {
		gridSize := uint64(1) << zoom
		perAxis := (gridSize + span - 1) / span
		total += int64(perAxis * perAxis)
	}
	return total
}

// failureState keeps the first error from any pipeline stage. Later
// tiles still get written; the run as a whole is reported failed.
type failureState struct {
	mu    sync.Mutex
	first error
}

func (f *failureState) record(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.first == nil {
		f.first = err
	}
	slog.Error("tile pipeline failure", "error", err)
}

func (f *failureState) err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.first
}
