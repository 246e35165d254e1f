package tagtiles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadTags(t *testing.T) {
	points := writeTempFile(t, "points.tsv",
		"x\ty\tname\n"+
			"0\t0\talpha\n"+
			"10.5\t-2\tbeta\n")

	t.Run("points only", func(t *testing.T) {
		tags, err := LoadTags(points, "")
		require.NoError(t, err)
		require.Len(t, tags, 2)

		assert.Equal(t, "alpha", tags[0].Name)
		assert.Equal(t, orb.Point{0, 0}, tags[0].Position)
		assert.Equal(t, WeightUnranked, tags[0].Weight)
		assert.Nil(t, tags[0].Attrs)

		assert.Equal(t, orb.Point{10.5, -2}, tags[1].Position)
	})

	t.Run("attributes join row by row", func(t *testing.T) {
		attrs := writeTempFile(t, "attrs.csv",
			"PostCount,Category\n"+
				"120,nature\n"+
				"7,city\n")

		tags, err := LoadTags(points, attrs)
		require.NoError(t, err)
		require.Len(t, tags, 2)

		assert.Equal(t, 120.0, tags[0].Weight)
		assert.Equal(t, "nature", tags[0].Attrs["Category"])
		assert.Equal(t, 7.0, tags[1].Weight)
	})

	t.Run("non-numeric post count falls back to unranked", func(t *testing.T) {
		attrs := writeTempFile(t, "attrs.csv",
			"PostCount\n"+
				"n/a\n"+
				"3\n")

		tags, err := LoadTags(points, attrs)
		require.NoError(t, err)
		assert.Equal(t, WeightUnranked, tags[0].Weight)
		assert.Equal(t, 3.0, tags[1].Weight)
	})

	t.Run("missing post count column means unranked", func(t *testing.T) {
		attrs := writeTempFile(t, "attrs.csv",
			"Category\n"+
				"nature\n"+
				"city\n")

		tags, err := LoadTags(points, attrs)
		require.NoError(t, err)
		assert.Equal(t, WeightUnranked, tags[0].Weight)
		assert.Equal(t, WeightUnranked, tags[1].Weight)
	})
}

func TestLoadTagsErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadTags(filepath.Join(t.TempDir(), "nope.tsv"), "")
		assert.Error(t, err)
	})

	t.Run("empty file", func(t *testing.T) {
		points := writeTempFile(t, "points.tsv", "")
		_, err := LoadTags(points, "")
		assert.ErrorContains(t, err, "empty")
	})

	t.Run("non-numeric coordinate", func(t *testing.T) {
		points := writeTempFile(t, "points.tsv",
			"x\ty\tname\n"+
				"east\t0\talpha\n")
		_, err := LoadTags(points, "")
		assert.ErrorContains(t, err, "not numeric")
	})

	t.Run("missing name", func(t *testing.T) {
		points := writeTempFile(t, "points.tsv",
			"x\ty\tname\n"+
				"1\t2\t\n")
		_, err := LoadTags(points, "")
		assert.ErrorContains(t, err, "name")
	})

	t.Run("duplicate name", func(t *testing.T) {
		points := writeTempFile(t, "points.tsv",
			"x\ty\tname\n"+
				"1\t2\talpha\n"+
				"3\t4\talpha\n")
		_, err := LoadTags(points, "")
		assert.ErrorContains(t, err, "already used")
	})

	t.Run("attribute row count mismatch", func(t *testing.T) {
		points := writeTempFile(t, "points.tsv",
			"x\ty\tname\n"+
				"1\t2\talpha\n")
		attrs := writeTempFile(t, "attrs.csv",
			"PostCount\n"+
				"1\n"+
				"2\n")
		_, err := LoadTags(points, attrs)
		assert.ErrorContains(t, err, "do not match")
	})
}
