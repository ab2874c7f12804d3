package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	assert.NotNil(t, loader)
	assert.NotNil(t, loader.v)
}

func TestLoaderLoad(t *testing.T) {
	t.Run("loads config from file", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "config.yaml")
		content := `
author: Jane Doe
license: Apache-2.0
edition: "2018"
kind: lib
workspace: true
git: true
`
		require.NoError(t, os.WriteFile(configFile, []byte(content), 0o644))

		cfg, err := NewLoader().Load(configFile)

		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", cfg.Author)
		assert.Equal(t, "Apache-2.0", cfg.License)
		assert.Equal(t, "2018", cfg.Edition)
		assert.Equal(t, "lib", cfg.Kind)
		assert.True(t, cfg.Workspace)
		assert.True(t, cfg.Git)
		assert.False(t, cfg.CI)
		assert.Equal(t, SourceConfig, cfg.Source("author"))
		assert.Equal(t, SourceDefault, cfg.Source("ci"))
	})

	t.Run("returns empty config for missing file", func(t *testing.T) {
		cfg, err := NewLoader().Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))

		require.NoError(t, err)
		assert.Empty(t, cfg.Author)
		assert.False(t, cfg.IsSet("license"))
	})

	t.Run("env vars override file values", func(t *testing.T) {
		t.Setenv("CRATEKIT_AUTHOR", "Env Author")
		t.Setenv("CRATEKIT_CI", "true")

		configFile := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(configFile, []byte("author: File Author\n"), 0o644))

		cfg, err := NewLoader().Load(configFile)

		require.NoError(t, err)
		assert.Equal(t, "Env Author", cfg.Author)
		assert.Equal(t, SourceEnv, cfg.Source("author"))
		assert.True(t, cfg.CI)
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(configFile, []byte("author: [unterminated\n"), 0o644))

		_, err := NewLoader().Load(configFile)
		assert.Error(t, err)
	})
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteFile(path, DefaultFileConfig(), false))

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultLicense, cfg.License)
	assert.Equal(t, DefaultEdition, cfg.Edition)

	err = WriteFile(path, DefaultFileConfig(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	assert.NoError(t, WriteFile(path, DefaultFileConfig(), true))
}
