package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/curate/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "curate.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("empty path returns defaults", func(t *testing.T) {
		t.Parallel()
		cfg, err := config.Load("")
		require.NoError(t, err)
		assert.Equal(t, config.Default(), cfg)
		assert.Equal(t, 5, cfg.MaxIters)
		assert.False(t, cfg.LogTrajectory)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, `
provider = "openai"
model = "gpt-4o"
base_url = "http://localhost:8080/v1"
max_iters = 8
log_trajectory = true
`)
		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "openai", cfg.Provider)
		assert.Equal(t, "gpt-4o", cfg.Model)
		assert.Equal(t, "http://localhost:8080/v1", cfg.BaseURL)
		assert.Equal(t, 8, cfg.MaxIters)
		assert.True(t, cfg.LogTrajectory)
		// Untouched fields keep their defaults.
		assert.Equal(t, "./report.txt", cfg.OutputPath)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
		require.Error(t, err)
	})

	t.Run("invalid toml", func(t *testing.T) {
		t.Parallel()
		_, err := config.Load(writeConfig(t, "max_iters = ["))
		require.Error(t, err)
	})

	t.Run("non-positive iteration ceiling rejected", func(t *testing.T) {
		t.Parallel()
		_, err := config.Load(writeConfig(t, "max_iters = 0"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_iters")
	})

	t.Run("unknown provider rejected", func(t *testing.T) {
		t.Parallel()
		_, err := config.Load(writeConfig(t, `provider = "bedrock"`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown provider")
	})
}
