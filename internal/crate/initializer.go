package crate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/opmodel/cratekit/internal/config"
)

// Request describes one unit to initialize.
type Request struct {
	// Dir is the unit directory relative to the project root.
	Dir string

	// Name is the package name.
	Name string

	// Kind selects a binary or library unit.
	Kind config.UnitKind

	// Edition is the toolchain edition tag.
	Edition string
}

// Initializer materializes a unit skeleton inside an existing directory.
type Initializer interface {
	// Init initializes the unit. It must not create a VCS repository.
	Init(ctx context.Context, req Request) error

	// Command describes the invocation Init performs.
	Command(req Request) string
}

// CargoInitializer runs `cargo init`.
type CargoInitializer struct {
	// Root is the absolute project root Request.Dir is relative to.
	Root string

	// Binary is the cargo executable. Defaults to "cargo".
	Binary string
}

// NewCargoInitializer creates an initializer rooted at root.
func NewCargoInitializer(root string) *CargoInitializer {
	return &CargoInitializer{Root: root, Binary: "cargo"}
}

func (c *CargoInitializer) args(req Request) []string {
	return []string{
		"init",
		"--vcs", "none",
		"--name", req.Name,
		req.Kind.Flag(),
		"--edition", req.Edition,
	}
}

func (c *CargoInitializer) binary() string {
	if c.Binary == "" {
		return "cargo"
	}
	return c.Binary
}

// Command implements Initializer.
func (c *CargoInitializer) Command(req Request) string {
	cmd := c.binary() + " " + strings.Join(c.args(req), " ")
	if req.Dir != "" && req.Dir != RootDir {
		cmd += " (in " + req.Dir + ")"
	}
	return cmd
}

// Init implements Initializer.
func (c *CargoInitializer) Init(ctx context.Context, req Request) error {
	cmd := exec.CommandContext(ctx, c.binary(), c.args(req)...)
	cmd.Dir = filepath.Join(c.Root, filepath.FromSlash(req.Dir))

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &InitError{
				Command:  c.Command(req),
				ExitCode: exitErr.ExitCode(),
				Output:   strings.TrimSpace(out.String()),
			}
		}
		return fmt.Errorf("running %s: %w", c.binary(), err)
	}
	return nil
}

// InitError reports a nonzero initializer exit.
type InitError struct {
	Command  string
	ExitCode int
	Output   string
}

func (e *InitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}
