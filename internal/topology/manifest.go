package topology

import (
	"fmt"
	"path"

	"github.com/pelletier/go-toml/v2"

	"github.com/opmodel/cratekit/internal/config"
)

// ManifestPath is the workspace root manifest.
const ManifestPath = "Cargo.toml"

// MembersGlob is the member pattern declared by the root manifest.
var MembersGlob = path.Join(config.MembersDir, "*")

// Resolver is the dependency resolver version declared by the root manifest.
const Resolver = "2"

type workspaceManifest struct {
	Workspace workspaceSection `toml:"workspace"`
}

type workspaceSection struct {
	Members  []string         `toml:"members"`
	Exclude  []string         `toml:"exclude,omitempty"`
	Resolver string           `toml:"resolver"`
	Package  workspacePackage `toml:"package"`
}

type workspacePackage struct {
	Edition string   `toml:"edition"`
	License string   `toml:"license,omitempty"`
	Authors []string `toml:"authors,omitempty"`
}

// RenderWorkspaceManifest returns the root manifest for cfg. Paths in exclude
// are listed as non-members even when the members glob matches them.
func RenderWorkspaceManifest(cfg config.Config, exclude ...string) ([]byte, error) {
	m := workspaceManifest{
		Workspace: workspaceSection{
			Members:  []string{MembersGlob},
			Exclude:  exclude,
			Resolver: Resolver,
			Package: workspacePackage{
				Edition: cfg.Edition,
				License: cfg.License,
			},
		},
	}
	if cfg.Author != "" {
		m.Workspace.Package.Authors = []string{cfg.Author}
	}

	out, err := toml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding workspace manifest: %w", err)
	}
	return out, nil
}

// DeclaresWorkspace reports whether manifest contains a [workspace] table.
func DeclaresWorkspace(manifest []byte) (bool, error) {
	var doc map[string]any
	if err := toml.Unmarshal(manifest, &doc); err != nil {
		return false, fmt.Errorf("parsing manifest: %w", err)
	}
	_, ok := doc["workspace"].(map[string]any)
	return ok, nil
}

// WorkspaceMembers returns the member patterns declared by manifest.
func WorkspaceMembers(manifest []byte) ([]string, error) {
	var m workspaceManifest
	if err := toml.Unmarshal(manifest, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return m.Workspace.Members, nil
}

// WorkspaceExcludes returns the paths excluded from membership by manifest.
func WorkspaceExcludes(manifest []byte) ([]string, error) {
	var m workspaceManifest
	if err := toml.Unmarshal(manifest, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return m.Workspace.Exclude, nil
}
