package config

import (
	"fmt"
	"path/filepath"
	"strconv"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue records how one configuration value was chosen.
type ResolvedValue struct {
	Key    string
	Value  string
	Source ConfigSource
}

// FlagValues holds raw command-line flag values.
type FlagValues struct {
	Dir         string
	Name        string
	Edition     string
	License     string
	Author      string
	Description string
	Bin         bool
	Lib         bool
	Workspace   bool
	Force       bool
	Verbose     bool
	DryRun      bool
	Tests       bool
	Git         bool
	CI          bool
}

// ResolveOptions contains inputs for Resolve.
type ResolveOptions struct {
	// Flags are the parsed command-line values.
	Flags FlagValues

	// Changed reports whether a flag was set explicitly. Nil means no flag
	// was set explicitly.
	Changed func(name string) bool

	// File holds defaults from the config file and environment.
	File FileConfig
}

// resolver accumulates resolved values in precedence order:
// flag > env > config file > built-in default.
type resolver struct {
	opts   ResolveOptions
	values []ResolvedValue
}

func (r *resolver) changed(flag string) bool {
	return r.opts.Changed != nil && r.opts.Changed(flag)
}

func (r *resolver) str(key, flag, flagValue, fileValue, def string) string {
	switch {
	case r.changed(flag):
		r.record(key, flagValue, SourceFlag)
		return flagValue
	case r.opts.File.IsSet(key) && fileValue != "":
		r.record(key, fileValue, r.opts.File.Source(key))
		return fileValue
	default:
		r.record(key, def, SourceDefault)
		return def
	}
}

func (r *resolver) boolean(key, flag string, flagValue, fileValue bool) bool {
	switch {
	case r.changed(flag):
		r.record(key, strconv.FormatBool(flagValue), SourceFlag)
		return flagValue
	case r.opts.File.IsSet(key):
		r.record(key, strconv.FormatBool(fileValue), r.opts.File.Source(key))
		return fileValue
	default:
		r.record(key, "false", SourceDefault)
		return false
	}
}

func (r *resolver) record(key, value string, source ConfigSource) {
	r.values = append(r.values, ResolvedValue{Key: key, Value: value, Source: source})
}

// Resolve builds the immutable run Config from flags and file defaults.
// It returns the per-key resolution trail for debug logging. Errors are
// usage errors: conflicting or invalid values.
func Resolve(opts ResolveOptions) (Config, []ResolvedValue, error) {
	r := &resolver{opts: opts}
	f := opts.Flags

	dir := f.Dir
	if dir == "" {
		dir = "."
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return Config{}, nil, fmt.Errorf("resolving project directory %s: %w", dir, err)
	}

	if f.Bin && f.Lib {
		return Config{}, nil, fmt.Errorf("--bin and --lib are mutually exclusive")
	}

	kind := DefaultKind
	switch {
	case f.Bin:
		kind = KindBinary
		r.record("kind", string(kind), SourceFlag)
	case f.Lib:
		kind = KindLibrary
		r.record("kind", string(kind), SourceFlag)
	case opts.File.IsSet("kind") && opts.File.Kind != "":
		kind, err = ParseUnitKind(opts.File.Kind)
		if err != nil {
			return Config{}, nil, err
		}
		r.record("kind", string(kind), opts.File.Source("kind"))
	default:
		r.record("kind", string(kind), SourceDefault)
	}

	topology := TopologySingle
	if r.boolean("workspace", "workspace", f.Workspace, opts.File.Workspace) {
		topology = TopologyWorkspace
	}

	name := f.Name
	if name == "" {
		name = filepath.Base(root)
		r.record("name", name, SourceDefault)
	} else {
		r.record("name", name, SourceFlag)
	}

	cfg := Config{
		Root:        root,
		Name:        name,
		Kind:        kind,
		Topology:    topology,
		Edition:     r.str("edition", "edition", f.Edition, opts.File.Edition, DefaultEdition),
		License:     r.str("license", "license", f.License, opts.File.License, DefaultLicense),
		Author:      r.str("author", "author", f.Author, opts.File.Author, ""),
		Description: r.str("description", "desc", f.Description, opts.File.Description, DefaultDescription),
		Force:       f.Force,
		Verbose:     f.Verbose,
		DryRun:      f.DryRun,
		WithTests:   r.boolean("tests", "tests", f.Tests, opts.File.Tests),
		WithGit:     r.boolean("git", "git", f.Git, opts.File.Git),
		WithCI:      r.boolean("ci", "ci", f.CI, opts.File.CI),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, nil, err
	}

	return cfg, r.values, nil
}
