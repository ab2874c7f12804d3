// Package cmdutil provides shared command utilities: flag groups, run
// wiring and error output.
package cmdutil

import (
	"github.com/spf13/cobra"

	"github.com/opmodel/cratekit/internal/config"
)

// ScaffoldFlags holds the flags that describe the project to scaffold.
type ScaffoldFlags struct {
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
	DryRun      bool
	Tests       bool
	Git         bool
	CI          bool
}

// AddTo registers the scaffold flags on the given cobra command.
func (f *ScaffoldFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Dir, "dir", "C", ".",
		"Project directory")
	cmd.Flags().StringVar(&f.Name, "name", "",
		"Project name (default: directory name)")
	cmd.Flags().BoolVar(&f.Bin, "bin", false,
		"Create a binary crate (default)")
	cmd.Flags().BoolVar(&f.Lib, "lib", false,
		"Create a library crate")
	cmd.Flags().BoolVar(&f.Workspace, "workspace", false,
		"Create a workspace with members under crates/")
	cmd.Flags().BoolVar(&f.Force, "force", false,
		"Overwrite existing files after backing them up")
	cmd.Flags().BoolVar(&f.DryRun, "dry-run", false,
		"Report what would be done without changing anything")
	cmd.Flags().StringVar(&f.Edition, "edition", config.DefaultEdition,
		"Rust edition")
	cmd.Flags().StringVar(&f.License, "license", config.DefaultLicense,
		"SPDX license identifier")
	cmd.Flags().BoolVar(&f.Git, "git", false,
		"Initialize a git repository with an initial commit")
	cmd.Flags().BoolVar(&f.CI, "ci", false,
		"Write a CI workflow placeholder")
	cmd.Flags().BoolVar(&f.Tests, "tests", false,
		"Inject test skeletons into the primary crate")
	cmd.Flags().StringVar(&f.Author, "author", "",
		"Author name, optionally with <email>")
	cmd.Flags().StringVar(&f.Description, "desc", config.DefaultDescription,
		"One-line project description")
}

// Values returns the flag values for config resolution.
func (f *ScaffoldFlags) Values(verbose bool) config.FlagValues {
	return config.FlagValues{
		Dir:         f.Dir,
		Name:        f.Name,
		Edition:     f.Edition,
		License:     f.License,
		Author:      f.Author,
		Description: f.Description,
		Bin:         f.Bin,
		Lib:         f.Lib,
		Workspace:   f.Workspace,
		Force:       f.Force,
		Verbose:     verbose,
		DryRun:      f.DryRun,
		Tests:       f.Tests,
		Git:         f.Git,
		CI:          f.CI,
	}
}
