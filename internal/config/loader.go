package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Environment variable prefix for cratekit configuration.
const envPrefix = "CRATEKIT"

// fileKeys are the keys read from the defaults file and CRATEKIT_* env vars.
var fileKeys = []string{"author", "license", "edition", "description", "kind", "workspace", "tests", "ci", "git"}

// FileConfig holds user defaults read from the config file and environment.
type FileConfig struct {
	Author      string `mapstructure:"author" yaml:"author"`
	License     string `mapstructure:"license" yaml:"license"`
	Edition     string `mapstructure:"edition" yaml:"edition"`
	Description string `mapstructure:"description" yaml:"description"`
	Kind        string `mapstructure:"kind" yaml:"kind"`
	Workspace   bool   `mapstructure:"workspace" yaml:"workspace"`
	Tests       bool   `mapstructure:"tests" yaml:"tests"`
	CI          bool   `mapstructure:"ci" yaml:"ci"`
	Git         bool   `mapstructure:"git" yaml:"git"`

	// set records which keys came from the file or environment.
	set map[string]ConfigSource
}

// Source reports where key was set, or SourceDefault if it was not.
func (f FileConfig) Source(key string) ConfigSource {
	if s, ok := f.set[key]; ok {
		return s
	}
	return SourceDefault
}

// IsSet reports whether key came from the file or the environment.
func (f FileConfig) IsSet(key string) bool {
	return f.Source(key) != SourceDefault
}

// DefaultFileConfig returns the defaults written by `cratekit config init`.
func DefaultFileConfig() FileConfig {
	return FileConfig{
		License:     DefaultLicense,
		Edition:     DefaultEdition,
		Description: DefaultDescription,
		Kind:        string(DefaultKind),
	}
}

// Loader handles loading configuration from file and environment.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range fileKeys {
		_ = v.BindEnv(key, envPrefix+"_"+strings.ToUpper(key))
	}

	return &Loader{v: v}
}

// Load loads configuration from the given file path.
// If configFile is empty, the default config file path is used.
// A missing file is not an error. Environment variables take precedence
// over file values.
func (l *Loader) Load(configFile string) (*FileConfig, error) {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return nil, fmt.Errorf("getting config file path: %w", err)
		}
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	l.v.SetConfigFile(expandedPath)
	l.v.SetConfigType("yaml")

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config file %s: %w", expandedPath, err)
		}
	}

	var cfg FileConfig
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.set = make(map[string]ConfigSource)
	for _, key := range fileKeys {
		if _, ok := os.LookupEnv(envPrefix + "_" + strings.ToUpper(key)); ok {
			cfg.set[key] = SourceEnv
		} else if l.v.InConfig(key) {
			cfg.set[key] = SourceConfig
		}
	}

	return &cfg, nil
}

// WriteFile writes cfg as YAML to path, creating parent directories.
// An existing file is only replaced when force is set.
func WriteFile(path string, cfg FileConfig, force bool) error {
	expandedPath, err := ExpandPath(path)
	if err != nil {
		return fmt.Errorf("expanding config path: %w", err)
	}

	if !force {
		if _, err := os.Stat(expandedPath); err == nil {
			return fmt.Errorf("config file %s already exists; use --force to overwrite", expandedPath)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(expandedPath), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return os.WriteFile(expandedPath, data, 0o644)
}
