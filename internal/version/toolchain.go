package version

import (
	"bytes"
	"context"
	"os/exec"
	"regexp"
	"strings"

	oerrors "github.com/opmodel/cratekit/internal/errors"
)

// toolVersionRegex matches version output like "cargo 1.79.0 (ffa9cf99a 2024-06-03)".
var toolVersionRegex = regexp.MustCompile(`\d+\.\d+\.\d+(?:-[a-zA-Z0-9.]+)?`)

// Detector finds toolchain binaries and their versions.
type Detector struct {
	// LookPath resolves a binary name. Defaults to exec.LookPath.
	LookPath func(name string) (string, error)

	// Output runs a binary and returns its combined output.
	Output func(ctx context.Context, path string, args ...string) (string, error)
}

// NewDetector creates a detector backed by os/exec.
func NewDetector() *Detector {
	return &Detector{
		LookPath: exec.LookPath,
		Output:   runOutput,
	}
}

func runOutput(ctx context.Context, path string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return "", err
	}
	return out.String(), nil
}

// Detect finds name in PATH and runs `name --version`.
func (d *Detector) Detect(ctx context.Context, name string) ToolInfo {
	path, err := d.LookPath(name)
	if err != nil {
		return ToolInfo{
			Name:    name,
			Found:   false,
			Message: name + " not found in PATH",
		}
	}

	out, err := d.Output(ctx, path, "--version")
	if err != nil {
		return ToolInfo{
			Name:    name,
			Path:    path,
			Found:   true,
			Message: "failed to get " + name + " version: " + err.Error(),
		}
	}

	version, err := extractVersion(out)
	if err != nil {
		return ToolInfo{Name: name, Path: path, Found: true, Message: err.Error()}
	}

	return ToolInfo{
		Name:    name,
		Version: version,
		Path:    path,
		Found:   true,
	}
}

// Toolchain detects cargo and rustc.
func (d *Detector) Toolchain(ctx context.Context) ToolchainInfo {
	return ToolchainInfo{
		Cargo: d.Detect(ctx, "cargo"),
		Rustc: d.Detect(ctx, "rustc"),
	}
}

// Check verifies the toolchain needed to initialize units is installed.
// A missing cargo is an environment error; rustc is informational.
func (d *Detector) Check(ctx context.Context) (ToolchainInfo, error) {
	info := d.Toolchain(ctx)
	if !info.Cargo.Found {
		return info, oerrors.NewEnvironmentError("cargo",
			"cargo is not installed or not in PATH",
			"install the Rust toolchain from https://rustup.rs")
	}
	return info, nil
}

// extractVersion extracts the version number from tool version output.
func extractVersion(output string) (string, error) {
	// Output formats:
	// cargo 1.79.0 (ffa9cf99a 2024-06-03)
	// rustc 1.81.0-nightly (d7f6ebace 2024-06-16)

	lines := strings.Split(strings.TrimSpace(output), "\n")
	match := toolVersionRegex.FindString(lines[0])
	if match == "" {
		match = toolVersionRegex.FindString(output)
	}

	if match == "" {
		return "", &versionParseError{output: output}
	}

	return match, nil
}

// versionParseError indicates failure to parse tool version output.
type versionParseError struct {
	output string
}

func (e *versionParseError) Error() string {
	return "failed to parse version from output: " + strings.TrimSpace(e.output)
}
