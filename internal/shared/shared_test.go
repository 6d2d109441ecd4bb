package shared

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/bundleless/internal/testutil"
)

func TestRead(t *testing.T) {
	r := NewReader([]string{"layout.tsx", "layout.js"}, "globals.css")

	t.Run("nothing present", func(t *testing.T) {
		sc, err := r.Read(t.TempDir())
		require.NoError(t, err)
		assert.False(t, sc.HasWrapper)
		assert.Empty(t, sc.Wrapper)
		assert.Empty(t, sc.Stylesheet)
	})

	t.Run("missing source dir is not an error", func(t *testing.T) {
		sc, err := r.Read(filepath.Join(t.TempDir(), "absent"))
		require.NoError(t, err)
		assert.False(t, sc.HasWrapper)
	})

	t.Run("first layout candidate wins", func(t *testing.T) {
		dir := testutil.NewProject(t, testutil.Tree{
			"layout.tsx":  "tsx layout",
			"layout.js":   "js layout",
			"globals.css": ".a{}",
		})
		sc, err := r.Read(dir)
		require.NoError(t, err)
		assert.True(t, sc.HasWrapper)
		assert.Equal(t, "tsx layout", sc.Wrapper)
		assert.Equal(t, filepath.Join(dir, "layout.tsx"), sc.WrapperFile)
		assert.Equal(t, ".a{}", sc.Stylesheet)
	})

	t.Run("fallback candidate", func(t *testing.T) {
		dir := testutil.NewProject(t, testutil.Tree{"layout.js": "js layout"})
		sc, err := r.Read(dir)
		require.NoError(t, err)
		assert.Equal(t, "js layout", sc.Wrapper)
	})

	t.Run("empty wrapper file still counts as present", func(t *testing.T) {
		dir := testutil.NewProject(t, testutil.Tree{"layout.tsx": ""})
		sc, err := r.Read(dir)
		require.NoError(t, err)
		assert.True(t, sc.HasWrapper)
	})

	t.Run("directory named like a layout is ignored", func(t *testing.T) {
		dir := testutil.NewProject(t, testutil.Tree{"layout.tsx/": ""})
		sc, err := r.Read(dir)
		require.NoError(t, err)
		assert.False(t, sc.HasWrapper)
	})
}
