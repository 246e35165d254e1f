package raster

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

var (
	faceMu    sync.Mutex
	faceCache = make(map[float64]font.Face)
)

// Face returns a Go Regular face at the given size, caching per size.
// Falls back to the fixed 7x13 face if the embedded font cannot be
// parsed, which keeps label drawing working rather than failing a run
// over typography.
func Face(size float64) font.Face {
	faceMu.Lock()
	defer faceMu.Unlock()

	if f, ok := faceCache[size]; ok {
		return f
	}

	f := newFace(size)
	faceCache[size] = f
	return f
}

func newFace(size float64) font.Face {
	parsed, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return basicfont.Face7x13
	}
	f, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	return f
}
