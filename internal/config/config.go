// Package config provides configuration loading and resolution for cratekit.
//
// The resolved run descriptor is Config. It is built once, before any action
// runs, and handed by value to every component; nothing downstream writes it.
package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// UnitKind is the kind of a compilable unit.
type UnitKind string

const (
	// KindBinary produces an executable crate (src/main.rs).
	KindBinary UnitKind = "bin"

	// KindLibrary produces a library crate (src/lib.rs).
	KindLibrary UnitKind = "lib"
)

// Flag returns the cargo flag selecting this kind.
func (k UnitKind) Flag() string {
	return "--" + string(k)
}

// SourceFile returns the primary source file of a unit of this kind,
// relative to the unit directory.
func (k UnitKind) SourceFile() string {
	if k == KindLibrary {
		return "src/lib.rs"
	}
	return "src/main.rs"
}

// ParseUnitKind parses "bin"/"binary" or "lib"/"library".
func ParseUnitKind(s string) (UnitKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bin", "binary":
		return KindBinary, nil
	case "lib", "library":
		return KindLibrary, nil
	default:
		return "", fmt.Errorf("unknown unit kind %q; valid kinds: bin, lib", s)
	}
}

// Topology is the layout of the generated project.
type Topology string

const (
	// TopologySingle places one unit at the project root.
	TopologySingle Topology = "single"

	// TopologyWorkspace places member units under MembersDir behind a
	// workspace root manifest.
	TopologyWorkspace Topology = "workspace"
)

// Built-in defaults.
const (
	DefaultEdition     = "2021"
	DefaultLicense     = "MIT"
	DefaultKind        = KindBinary
	DefaultDescription = "A Rust project scaffolded by cratekit."

	// MembersDir holds workspace member units.
	MembersDir = "crates"

	// DiscoveryName is the name of the auxiliary discovery example unit.
	DiscoveryName = "discovery"
)

// ValidEditions lists the Rust editions cargo accepts.
var ValidEditions = []string{"2015", "2018", "2021", "2024"}

// crateNameRegex matches names cargo accepts for a new package.
var crateNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// Config is the resolved, immutable run descriptor.
type Config struct {
	// Root is the absolute project directory.
	Root string

	// Name is the project name (defaults to the basename of Root).
	Name string

	// Kind is the kind of the primary unit.
	Kind UnitKind

	// Topology selects a single unit or a workspace.
	Topology Topology

	// Edition is the Rust edition passed to the initializer.
	Edition string

	// License is the SPDX license identifier.
	License string

	// Author is optional.
	Author string

	// Description is used in README.md.
	Description string

	// Force overwrites existing files after backing them up.
	Force bool

	// Verbose enables debug output and interactive progress.
	Verbose bool

	// DryRun reports intended actions without touching the filesystem.
	DryRun bool

	// WithTests injects test skeletons into the primary unit.
	WithTests bool

	// WithGit initializes a git repository with an initial commit.
	WithGit bool

	// WithCI writes the CI workflow placeholder.
	WithCI bool
}

// Validate checks the config for values the pipeline cannot act on.
func (c Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("project directory is required")
	}
	if !crateNameRegex.MatchString(c.Name) {
		return fmt.Errorf("invalid project name %q: must start with a letter and contain only letters, digits, '-' or '_'", c.Name)
	}
	if c.Kind != KindBinary && c.Kind != KindLibrary {
		return fmt.Errorf("unknown unit kind %q", c.Kind)
	}
	if c.Topology != TopologySingle && c.Topology != TopologyWorkspace {
		return fmt.Errorf("unknown topology %q", c.Topology)
	}
	if c.Topology == TopologyWorkspace && c.Name == DiscoveryName {
		return fmt.Errorf("workspace member name %q collides with the discovery example crate", c.Name)
	}
	if !slices.Contains(ValidEditions, c.Edition) {
		return fmt.Errorf("unsupported edition %q; valid editions: %s", c.Edition, strings.Join(ValidEditions, ", "))
	}
	return nil
}

// NeedsTestSkeleton reports whether the primary unit gets test scaffolding.
func (c Config) NeedsTestSkeleton() bool {
	return c.WithTests || c.Kind == KindLibrary
}
