package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/bundleless/internal/foundation/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_Defaults(t *testing.T) {
	root := t.TempDir()

	cfg, err := Load(root, Overrides{})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "app"), cfg.SourceDir)
	assert.Equal(t, filepath.Join(root, "bundleless"), cfg.OutputDir)
	assert.Equal(t, filepath.Join(root, "public"), cfg.PublicDir)
	assert.Equal(t, []string{"page.tsx", "page.js"}, cfg.PageFiles)
	assert.Equal(t, []string{"layout.tsx", "layout.js"}, cfg.LayoutFiles)
	assert.Equal(t, "globals.css", cfg.Stylesheet)
	assert.Equal(t, RenderModeReact, cfg.Render.Mode)
	assert.Equal(t, RuntimeUMD, cfg.Render.Runtime)
	assert.Equal(t, 100*time.Millisecond, cfg.Watch.Debounce)
	assert.Zero(t, cfg.Watch.RescanInterval)
	assert.Equal(t, 3300, cfg.Preview.Port)
	assert.True(t, cfg.Preview.LiveReload)
}

func TestLoad_Precedence(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, DefaultFileName), `
source_dir: src
output_dir: out-file
render:
  mode: static
watch:
  debounce: 250ms
preview:
  port: 4000
`)

	t.Run("file over defaults", func(t *testing.T) {
		cfg, err := Load(root, Overrides{})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "src"), cfg.SourceDir)
		assert.Equal(t, filepath.Join(root, "out-file"), cfg.OutputDir)
		assert.Equal(t, RenderModeStatic, cfg.Render.Mode)
		assert.Equal(t, 250*time.Millisecond, cfg.Watch.Debounce)
		assert.Equal(t, 4000, cfg.Preview.Port)
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv(EnvOutputDir, "out-env")
		t.Setenv(EnvRenderMode, "REACT")
		cfg, err := Load(root, Overrides{})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "out-env"), cfg.OutputDir)
		assert.Equal(t, RenderModeReact, cfg.Render.Mode)
	})

	t.Run("flag over env", func(t *testing.T) {
		t.Setenv(EnvOutputDir, "out-env")
		live := false
		cfg, err := Load(root, Overrides{OutputDir: "out-flag", LiveReload: &live, Verbose: true})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "out-flag"), cfg.OutputDir)
		assert.False(t, cfg.Preview.LiveReload)
		assert.True(t, cfg.Verbose)
	})
}

func TestLoad_DotEnvDoesNotOverrideProcessEnv(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".env"), "BUNDLELESS_OUTPUT_DIR=from-dotenv\nBUNDLELESS_PREVIEW_PORT=3400\n")
	t.Setenv(EnvOutputDir, "from-process")
	t.Setenv(EnvPreviewPort, "")
	require.NoError(t, os.Unsetenv(EnvPreviewPort))

	cfg, err := Load(root, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "from-process"), cfg.OutputDir)
	assert.Equal(t, 3400, cfg.Preview.Port)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope"), Overrides{})
		require.Error(t, err)
		assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	})

	t.Run("unknown yaml field", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, DefaultFileName), "sourcedir: app\n")
		_, err := Load(root, Overrides{})
		require.Error(t, err)
		assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	})

	t.Run("explicit config file missing", func(t *testing.T) {
		_, err := Load(t.TempDir(), Overrides{ConfigFile: "custom.yaml"})
		require.Error(t, err)
	})

	t.Run("bad env duration", func(t *testing.T) {
		t.Setenv(EnvDebounce, "soon")
		_, err := Load(t.TempDir(), Overrides{})
		require.Error(t, err)
	})

	t.Run("invalid render mode", func(t *testing.T) {
		_, err := Load(t.TempDir(), Overrides{RenderMode: "ssr"})
		require.ErrorIs(t, err, ErrInvalidRenderMode)
		assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
	})
}
