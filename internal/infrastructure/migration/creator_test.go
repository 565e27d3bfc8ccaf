package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	t.Run("writes an up and down pair", func(t *testing.T) {
		dir := t.TempDir()
		mf, err := CreateMigration(dir, "add reorder threshold", "threshold column on stock_entries")
		require.NoError(t, err)

		assert.Len(t, mf.Version, 14)
		assert.Contains(t, filepath.Base(mf.UpPath), "add_reorder_threshold.up.sql")
		assert.Contains(t, filepath.Base(mf.DownPath), "add_reorder_threshold.down.sql")

		up, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), "threshold column on stock_entries")

		_, err = os.Stat(mf.DownPath)
		assert.NoError(t, err)
	})

	t.Run("creates the directory when missing", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "migrations")
		_, err := CreateMigration(dir, "init", "")
		require.NoError(t, err)

		names, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Len(t, names, 1)
	})
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Add Locations Table":    "add_locations_table",
		"fix--weird   spacing":   "fix_weird_spacing",
		"__leading and trailing": "leading_and_trailing",
		"v2":                     "v2",
	}
	for in, want := range cases {
		assert.Equal(t, want, slugify(in), in)
	}
}

func TestListMigrations(t *testing.T) {
	t.Run("missing directory yields no names", func(t *testing.T) {
		names, err := ListMigrations(filepath.Join(t.TempDir(), "absent"))
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("pairs are listed once by base name", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{
			"20260101000000_one.up.sql",
			"20260101000000_one.down.sql",
			"20260102000000_two.up.sql",
			"20260102000000_two.down.sql",
			"notes.txt",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- x\n"), 0o644))
		}

		names, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"20260101000000_one", "20260102000000_two"}, names)
	})
}
