package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/tagatlas/go-tagtiles/tagtiles"
)

func main() {
	pointsPath := flag.String("points", "", "Path to the tab-separated file of points (x, y, name columns).")
	attrsPath := flag.String("attributes", "", "Optional path to the comma-separated attribute file, row-aligned with -points.")
	flag.Parse()

	if *pointsPath == "" {
		log.Fatalf("Points file (-points) is required")
	}
	if flag.NArg() == 0 {
		log.Fatalf("Pass at least one tag name to locate")
	}

	tags, err := tagtiles.LoadTags(*pointsPath, *attrsPath)
	if err != nil {
		log.Fatalf("Couldn't load tags: %+v", err)
	}

	pyramid, err := tagtiles.NewPyramid(tags, tagtiles.DefaultConfig())
	if err != nil {
		log.Fatalf("Couldn't build pyramid: %+v", err)
	}

	for _, name := range flag.Args() {
		u, v, ok := pyramid.Locate(name)
		if !ok {
			fmt.Printf("%s\tnot found\n", name)
			continue
		}
		fmt.Printf("%s\t%.6f\t%.6f\n", name, u, v)
	}
}
