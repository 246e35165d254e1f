package tagtiles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb/maptile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskOutputter(t *testing.T) {
	t.Run("saves tiles under flat names", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "tiles")
		out, err := NewDiskOutputter(root)
		require.NoError(t, err)
		require.NoError(t, out.CreateTiles())

		require.NoError(t, out.Save(maptile.New(3, 1, 2), []byte("png-bytes")))
		require.NoError(t, out.Close())

		data, err := os.ReadFile(filepath.Join(root, "3_1_2.png"))
		require.NoError(t, err)
		assert.Equal(t, []byte("png-bytes"), data)
	})

	t.Run("create wipes leftovers from earlier runs", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "tiles")
		require.NoError(t, os.MkdirAll(root, 0755))
		stale := filepath.Join(root, "9_9_9.png")
		require.NoError(t, os.WriteFile(stale, []byte("stale"), 0644))

		out, err := NewDiskOutputter(root)
		require.NoError(t, err)
		require.NoError(t, out.CreateTiles())

		_, err = os.Stat(stale)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("create is idempotent within a run", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "tiles")
		out, err := NewDiskOutputter(root)
		require.NoError(t, err)
		require.NoError(t, out.CreateTiles())
		require.NoError(t, out.Save(maptile.New(0, 0, 0), []byte("keep")))

		// A second CreateTiles must not wipe what this run wrote.
		require.NoError(t, out.CreateTiles())
		_, err = os.Stat(filepath.Join(root, "0_0_0.png"))
		assert.NoError(t, err)
	})
}
