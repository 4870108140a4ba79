package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/go-nacelle/pgviews"
	"github.com/hexops/autogold/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersions(t *testing.T) {
	color.NoColor = true

	dir := t.TempDir()
	for _, filename := range []string{
		"active_users_v1.sql",
		"active_users_v2.sql",
		"orders_v01.sql",
		"orders_view_v7.sql",
		"notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte("SELECT 1"), 0o644))
	}

	t.Run("all views", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, versions(&buf, dir, nil))
		autogold.Expect("active_users  v02  active_users_v2.sql\tok\norders        v01  orders_v01.sql\tok\norders_view   v07  orders_view_v7.sql\tok\n").Equal(t, buf.String())
	})

	t.Run("missing view", func(t *testing.T) {
		var buf bytes.Buffer
		err := versions(&buf, dir, []string{"orders", "ghost"})
		assert.EqualError(t, err, "no definition file for ghost")
		assert.Equal(t, "orders  v01  orders_v01.sql\tok\nghost   v01  ghost_v01.sql\tmissing\n", buf.String())
	})

	t.Run("unreadable directory", func(t *testing.T) {
		err := versions(&bytes.Buffer{}, filepath.Join(dir, "missing"), nil)
		assert.ErrorIs(t, err, pgviews.ErrDirectoryUnreadable)
	})
}
