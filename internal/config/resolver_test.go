package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func changedSet(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

func TestResolveDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my-project")

	cfg, values, err := Resolve(ResolveOptions{Flags: FlagValues{Dir: dir}})

	require.NoError(t, err)
	assert.Equal(t, "my-project", cfg.Name)
	assert.Equal(t, dir, cfg.Root)
	assert.Equal(t, KindBinary, cfg.Kind)
	assert.Equal(t, TopologySingle, cfg.Topology)
	assert.Equal(t, DefaultEdition, cfg.Edition)
	assert.Equal(t, DefaultLicense, cfg.License)
	assert.Equal(t, DefaultDescription, cfg.Description)
	assert.Empty(t, cfg.Author)
	assert.NotEmpty(t, values)
}

func TestResolvePrecedence(t *testing.T) {
	file := FileConfig{
		Author:  "File Author",
		Edition: "2018",
		Kind:    "lib",
		CI:      true,
		set: map[string]ConfigSource{
			"author":  SourceConfig,
			"edition": SourceConfig,
			"kind":    SourceConfig,
			"ci":      SourceEnv,
		},
	}

	t.Run("file values apply when flags are unset", func(t *testing.T) {
		cfg, _, err := Resolve(ResolveOptions{
			Flags: FlagValues{Dir: t.TempDir(), Name: "demo"},
			File:  file,
		})

		require.NoError(t, err)
		assert.Equal(t, "File Author", cfg.Author)
		assert.Equal(t, "2018", cfg.Edition)
		assert.Equal(t, KindLibrary, cfg.Kind)
		assert.True(t, cfg.WithCI)
	})

	t.Run("explicit flags win", func(t *testing.T) {
		cfg, values, err := Resolve(ResolveOptions{
			Flags:   FlagValues{Dir: t.TempDir(), Name: "demo", Author: "Flag Author", Edition: "2021", Bin: true, CI: false},
			Changed: changedSet("author", "edition", "bin", "ci"),
			File:    file,
		})

		require.NoError(t, err)
		assert.Equal(t, "Flag Author", cfg.Author)
		assert.Equal(t, "2021", cfg.Edition)
		assert.Equal(t, KindBinary, cfg.Kind)
		assert.False(t, cfg.WithCI)

		for _, v := range values {
			if v.Key == "author" {
				assert.Equal(t, SourceFlag, v.Source)
			}
		}
	})
}

func TestResolveErrors(t *testing.T) {
	t.Run("bin and lib together", func(t *testing.T) {
		_, _, err := Resolve(ResolveOptions{
			Flags: FlagValues{Dir: t.TempDir(), Name: "demo", Bin: true, Lib: true},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mutually exclusive")
	})

	t.Run("invalid name", func(t *testing.T) {
		_, _, err := Resolve(ResolveOptions{Flags: FlagValues{Dir: t.TempDir(), Name: "bad name"}})
		assert.Error(t, err)
	})

	t.Run("invalid kind in file", func(t *testing.T) {
		_, _, err := Resolve(ResolveOptions{
			Flags: FlagValues{Dir: t.TempDir(), Name: "demo"},
			File:  FileConfig{Kind: "cdylib", set: map[string]ConfigSource{"kind": SourceConfig}},
		})
		assert.Error(t, err)
	})
}
