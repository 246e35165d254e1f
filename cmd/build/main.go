package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"

	"github.com/paulmach/orb/maptile"

	"github.com/tagatlas/go-tagtiles/tagtiles"
)

func main() {
	pointsPath := flag.String("points", "", "Path to the tab-separated file of points (x, y, name columns).")
	attrsPath := flag.String("attributes", "", "Optional path to the comma-separated attribute file, row-aligned with -points. A PostCount column supplies label/marker weights.")
	maxZoom := flag.Int("max-zoom", 5, "Deepest zoom level to generate, inclusive.")
	outputMode := flag.String("output-mode", "disk", "Valid modes are: disk, mbtiles, pmtiles, s3.")
	outputRoot := flag.String("output", "tiles", "Output directory (disk mode), file path (mbtiles/pmtiles), or bucket[/prefix] (s3).")
	suffix := flag.String("suffix", "", "Optional run suffix appended to the output path as _{suffix}, so tilesets for different datasets can coexist.")
	numWorkers := flag.Int("workers", 4, "Number of tile slice-and-persist workers.")
	tileDim := flag.Int("tile-size", 256, "Edge length of a finished tile in pixels.")
	oversample := flag.Int("oversample", 2, "Oversampling factor for antialiased rendering.")
	metatileSize := flag.Int("metatile-size", 8, "Number of tiles per metatile edge.")
	zoomText := flag.Int("zoom-text", 7, "Zoom level at which every tag name is drawn.")
	labelsPerTile := flag.Int("labels-per-tile", 10, "Maximum labels per metatile footprint below -zoom-text.")
	cpuProfile := flag.String("cpuprofile", "", "Enables CPU profiling. Saves the dump to the given path.")
	flag.Parse()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	if *pointsPath == "" {
		log.Fatalf("Points file (-points) is required")
	}
	if *maxZoom < 0 {
		log.Fatalf("Max zoom must not be negative")
	}

	tags, err := tagtiles.LoadTags(*pointsPath, *attrsPath)
	if err != nil {
		log.Fatalf("Couldn't load tags: %+v", err)
	}
	log.Printf("Loaded %d tags", len(tags))

	cfg := tagtiles.DefaultConfig()
	cfg.MaxZoom = maptile.Zoom(*maxZoom)
	cfg.TileDim = *tileDim
	cfg.Oversample = *oversample
	cfg.MetatileSize = uint32(*metatileSize)
	cfg.ZoomTextShow = maptile.Zoom(*zoomText)
	cfg.LabelsPerTile = *labelsPerTile

	pyramid, err := tagtiles.NewPyramid(tags, cfg)
	if err != nil {
		log.Fatalf("Couldn't build pyramid: %+v", err)
	}

	dsn := *outputRoot
	if *suffix != "" {
		dsn = fmt.Sprintf("%s_%s", dsn, *suffix)
	}

	var outputter tagtiles.TileOutputter
	switch *outputMode {
	case "disk":
		outputter, err = tagtiles.NewDiskOutputter(dsn)
	case "mbtiles":
		outputter, err = tagtiles.NewMbtilesOutputter(dsn)
	case "pmtiles":
		outputter, err = tagtiles.NewPmtilesOutputter(dsn)
	case "s3":
		outputter, err = tagtiles.NewS3Outputter(dsn)
	default:
		log.Fatalf("Unknown outputter: %s", *outputMode)
	}
	if err != nil {
		log.Fatalf("Couldn't create %s output: %+v", *outputMode, err)
	}

	if err := pyramid.Generate(outputter, *numWorkers); err != nil {
		log.Fatalf("Tile generation failed: %+v", err)
	}
	log.Printf("Finished writing tiles to %s", dsn)
}
