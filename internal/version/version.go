// Package version provides version information for cratekit and the Rust
// toolchain it drives.
package version

import (
	"fmt"
	"runtime"
)

// Build-time variables set via ldflags.
var (
	// Version is the CLI version (set via ldflags).
	Version = "v0.0.0-dev"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// Info contains version information.
type Info struct {
	// Version is the CLI version (set via ldflags).
	Version string `json:"version"`

	// GitCommit is the git commit hash.
	GitCommit string `json:"gitCommit"`

	// BuildDate is the build timestamp.
	BuildDate string `json:"buildDate"`

	// GoVersion is the Go version used to build.
	GoVersion string `json:"goVersion"`
}

// ToolInfo describes one external toolchain binary.
type ToolInfo struct {
	// Name is the binary name.
	Name string `json:"name"`

	// Version is the parsed version.
	Version string `json:"version,omitempty"`

	// Path is the resolved binary path.
	Path string `json:"path,omitempty"`

	// Found indicates the binary was found in PATH.
	Found bool `json:"found"`

	// Message explains a detection failure.
	Message string `json:"message,omitempty"`
}

// ToolchainInfo is the detected Rust toolchain.
type ToolchainInfo struct {
	Cargo ToolInfo `json:"cargo"`
	Rustc ToolInfo `json:"rustc"`
}

// GetInfo returns the current version information.
func GetInfo() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
}

// String returns a human-readable version string.
func (i Info) String() string {
	return fmt.Sprintf("cratekit:\n  Version:  %s\n  Build ID: %s/%s\n  Go:       %s",
		i.Version, i.BuildDate, i.GitCommit, i.GoVersion)
}

// String returns a human-readable tool line.
func (t ToolInfo) String() string {
	if !t.Found {
		msg := "not found"
		if t.Message != "" {
			msg = t.Message
		}
		return fmt.Sprintf("  %-6s %s", t.Name+":", msg)
	}
	return fmt.Sprintf("  %-6s %s (%s)", t.Name+":", t.Version, t.Path)
}

// String returns a human-readable toolchain summary.
func (t ToolchainInfo) String() string {
	return "Rust toolchain:\n" + t.Cargo.String() + "\n" + t.Rustc.String()
}

// FullVersionString returns complete version information including the
// detected toolchain.
func FullVersionString(info Info, toolchain ToolchainInfo) string {
	return info.String() + "\n\n" + toolchain.String()
}
