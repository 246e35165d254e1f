package tagtiles

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/paulmach/orb"
)

// LoadTags reads the tab-separated point source and, when attrsPath is
// not empty, the comma-separated attribute source aligned with it row by
// row. The point source needs x, y and name columns. Every attribute
// column is kept opaque on the tag; the PostCount column, when present
// and numeric, becomes the tag's weight, otherwise the weight is the
// unranked sentinel. Any malformed or mismatched record fails the load.
func LoadTags(pointsPath, attrsPath string) ([]*Tag, error) {
	points, err := readTable(pointsPath, '\t')
	if err != nil {
		return nil, fmt.Errorf("reading points %s: %w", pointsPath, err)
	}

	var attrs []map[string]string
	if attrsPath != "" {
		attrs, err = readTable(attrsPath, ',')
		if err != nil {
			return nil, fmt.Errorf("reading attributes %s: %w", attrsPath, err)
		}
		if len(attrs) != len(points) {
			return nil, fmt.Errorf("attribute rows (%d) do not match point rows (%d)", len(attrs), len(points))
		}
	}

	tags := make([]*Tag, 0, len(points))
	seen := make(map[string]int, len(points))
	for i, row := range points {
		tag, err := tagFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("point record %d: %w", i+1, err)
		}
		if prev, dup := seen[tag.Name]; dup {
			return nil, fmt.Errorf("point record %d: name %q already used by record %d", i+1, tag.Name, prev)
		}
		seen[tag.Name] = i + 1

		if attrs != nil {
			tag.Attrs = attrs[i]
			tag.Weight = parseWeight(attrs[i])
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func tagFromRow(row map[string]string) (*Tag, error) {
	x, err := strconv.ParseFloat(row["x"], 64)
	if err != nil {
		return nil, fmt.Errorf("column x %q is not numeric", row["x"])
	}
	y, err := strconv.ParseFloat(row["y"], 64)
	if err != nil {
		return nil, fmt.Errorf("column y %q is not numeric", row["y"])
	}
	name, ok := row["name"]
	if !ok || name == "" {
		return nil, fmt.Errorf("missing name column")
	}
	return &Tag{
		Name:     name,
		Position: orb.Point{x, y},
		Weight:   WeightUnranked,
	}, nil
}

func parseWeight(attrs map[string]string) float64 {
	raw, ok := attrs["PostCount"]
	if !ok {
		return WeightUnranked
	}
	w, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return WeightUnranked
	}
	return w
}

// readTable reads a delimited file with a header row into one map per
// record, keyed by column name.
func readTable(path string, comma rune) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = comma

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("file is empty")
	}
	if err != nil {
		return nil, err
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			row[col] = record[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}
