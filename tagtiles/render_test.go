package tagtiles

import (
	"image"
	"image/color"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPyramid(t *testing.T, tags []*Tag, cfg Config) *Pyramid {
	t.Helper()
	p, err := NewPyramid(tags, cfg)
	require.NoError(t, err)
	return p
}

func hasPixel(img *image.NRGBA, want color.NRGBA, region image.Rectangle) bool {
	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			if img.NRGBAAt(x, y) == want {
				return true
			}
		}
	}
	return false
}

func hasDarkPixel(img *image.NRGBA, region image.Rectangle) bool {
	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			if c.A == 255 && c.R < 100 && c.G < 100 && c.B < 100 {
				return true
			}
		}
	}
	return false
}

func TestRenderMetatile(t *testing.T) {
	cfg := scenarioConfig()

	t.Run("markers land on their pixel positions", func(t *testing.T) {
		p := newTestPyramid(t, scenarioTags(), cfg)

		canvas, count := p.renderer.RenderMetatile(0, 0, 1)
		assert.Equal(t, 3, count)

		// alpha at world (0,0) -> canvas (32,32); gamma at (96,32).
		assert.Equal(t, cfg.Marker, canvas.NRGBAAt(32, 32))
		assert.Equal(t, cfg.Marker, canvas.NRGBAAt(96, 32))
	})

	t.Run("empty dataset renders pure background", func(t *testing.T) {
		p := newTestPyramid(t, nil, cfg)

		canvas, count := p.renderer.RenderMetatile(0, 0, 1)
		assert.Zero(t, count)

		b := canvas.Bounds()
		for _, pt := range []image.Point{
			{b.Min.X, b.Min.Y},
			{b.Max.X - 1, b.Max.Y - 1},
			{b.Dx() / 2, b.Dy() / 2},
		} {
			assert.Equal(t, cfg.Background, canvas.NRGBAAt(pt.X, pt.Y))
		}
	})

	t.Run("all zero weights still draw minimum markers", func(t *testing.T) {
		tags := []*Tag{
			{Name: "a", Position: orb.Point{0, 0}, Weight: 0},
			{Name: "b", Position: orb.Point{20, 20}, Weight: WeightUnranked},
		}
		p := newTestPyramid(t, tags, cfg)

		canvas, count := p.renderer.RenderMetatile(0, 0, 0)
		assert.Equal(t, 2, count)
		assert.True(t, hasPixel(canvas, cfg.Marker, canvas.Bounds()))
	})

	t.Run("selected labels draw on top of the markers", func(t *testing.T) {
		p := newTestPyramid(t, scenarioTags(), cfg)

		canvas, _ := p.renderer.RenderMetatile(0, 0, 1)

		// Only alpha is selected below the text threshold; its glyphs
		// rise above the baseline anchored at (32,32).
		assert.True(t, hasDarkPixel(canvas, image.Rect(30, 0, 128, 34)))
	})

	t.Run("every name shows above the text threshold", func(t *testing.T) {
		allShown := cfg
		allShown.ZoomTextShow = 0
		p := newTestPyramid(t, scenarioTags(), allShown)

		canvas, _ := p.renderer.RenderMetatile(0, 0, 1)

		// beta has weight 1 and would lose label selection, but the
		// threshold bypasses selection entirely. Baseline at (64,64).
		assert.True(t, hasDarkPixel(canvas, image.Rect(62, 20, 128, 66)))
	})
}

func TestMarkerRadius(t *testing.T) {
	cfg := scenarioConfig()
	p := newTestPyramid(t, scenarioTags(), cfg)

	t.Run("scales with weight share and zoom", func(t *testing.T) {
		heavy := &Tag{Name: "h", Weight: 5}
		light := &Tag{Name: "l", Weight: 1}

		assert.Equal(t, 4.0, p.renderer.markerRadius(heavy, 4))
		assert.InDelta(t, 0.8, p.renderer.markerRadius(light, 4), 1e-9)
	})

	t.Run("floors at the minimum", func(t *testing.T) {
		faint := &Tag{Name: "f", Weight: 0.001}
		assert.Equal(t, minMarkerRadius, p.renderer.markerRadius(faint, 0))

		unranked := &Tag{Name: "u", Weight: WeightUnranked}
		assert.Equal(t, minMarkerRadius, p.renderer.markerRadius(unranked, 6))
	})

	t.Run("constant when no weight is positive", func(t *testing.T) {
		flat := newTestPyramid(t, []*Tag{
			{Name: "a", Position: orb.Point{0, 0}, Weight: 0},
			{Name: "b", Position: orb.Point{5, 5}, Weight: 0},
		}, cfg)

		tag := &Tag{Name: "a", Weight: 0}
		assert.Equal(t, minMarkerRadius, flat.renderer.markerRadius(tag, 5))
	})
}
