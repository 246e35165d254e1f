package tagtiles

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// TilesetMetadata is the key/value metadata block stored next to a
// tileset. Bounds are in world (plane) coordinates, not lon/lat; the
// plane has no geodetic meaning.
type TilesetMetadata struct {
	metadata map[string]string
}

func NewTilesetMetadata(metadata map[string]string) *TilesetMetadata {
	return &TilesetMetadata{metadata: metadata}
}

func (m *TilesetMetadata) Get(k string) (string, bool) {
	v, exists := m.metadata[k]
	return v, exists
}

func (m *TilesetMetadata) Set(k, v string) {
	m.metadata[k] = v
}

// Keys returns the metadata keys in a stable order.
func (m *TilesetMetadata) Keys() []string {
	keys := make([]string, 0, len(m.metadata))
	for k := range m.metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Bounds parses the "bounds" entry as minx,miny,maxx,maxy.
func (m *TilesetMetadata) Bounds() (orb.Bound, error) {
	var bounds orb.Bound

	raw, exists := m.Get("bounds")
	if !exists {
		return bounds, fmt.Errorf("metadata is missing bounds")
	}

	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return bounds, fmt.Errorf("invalid bounds metadata %q", raw)
	}

	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return bounds, fmt.Errorf("failed to parse bounds component %d: %w", i, err)
		}
		vals[i] = v
	}

	return orb.Bound{
		Min: orb.Point{vals[0], vals[1]},
		Max: orb.Point{vals[2], vals[3]},
	}, nil
}

func (m *TilesetMetadata) MinZoom() (uint, error) {
	return m.zoom("minzoom")
}

func (m *TilesetMetadata) MaxZoom() (uint, error) {
	return m.zoom("maxzoom")
}

func (m *TilesetMetadata) zoom(key string) (uint, error) {
	raw, exists := m.Get(key)
	if !exists {
		return 0, fmt.Errorf("metadata is missing %s", key)
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s value: %w", key, err)
	}
	return uint(i), nil
}
