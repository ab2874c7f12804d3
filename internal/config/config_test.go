package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Root:     "/tmp/demo",
		Name:     "demo",
		Kind:     KindLibrary,
		Topology: TopologySingle,
		Edition:  DefaultEdition,
		License:  DefaultLicense,
	}
}

func TestParseUnitKind(t *testing.T) {
	tests := []struct {
		input   string
		want    UnitKind
		wantErr bool
	}{
		{input: "bin", want: KindBinary},
		{input: "Binary", want: KindBinary},
		{input: "lib", want: KindLibrary},
		{input: " library ", want: KindLibrary},
		{input: "dylib", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseUnitKind(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnitKindSourceFile(t *testing.T) {
	assert.Equal(t, "src/main.rs", KindBinary.SourceFile())
	assert.Equal(t, "src/lib.rs", KindLibrary.SourceFile())
	assert.Equal(t, "--lib", KindLibrary.Flag())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "empty root", mutate: func(c *Config) { c.Root = "" }, wantErr: "project directory"},
		{name: "name with space", mutate: func(c *Config) { c.Name = "my app" }, wantErr: "invalid project name"},
		{name: "name starting with digit", mutate: func(c *Config) { c.Name = "1app" }, wantErr: "invalid project name"},
		{name: "unknown edition", mutate: func(c *Config) { c.Edition = "2030" }, wantErr: "unsupported edition"},
		{
			name: "workspace named discovery",
			mutate: func(c *Config) {
				c.Topology = TopologyWorkspace
				c.Name = DiscoveryName
			},
			wantErr: "collides",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNeedsTestSkeleton(t *testing.T) {
	cfg := validConfig()
	assert.True(t, cfg.NeedsTestSkeleton(), "libraries always get tests")

	cfg.Kind = KindBinary
	assert.False(t, cfg.NeedsTestSkeleton())

	cfg.WithTests = true
	assert.True(t, cfg.NeedsTestSkeleton())
}
