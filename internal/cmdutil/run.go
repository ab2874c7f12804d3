package cmdutil

import (
	"context"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/opmodel/cratekit/internal/config"
	"github.com/opmodel/cratekit/internal/crate"
	"github.com/opmodel/cratekit/internal/fsops"
	"github.com/opmodel/cratekit/internal/output"
	"github.com/opmodel/cratekit/internal/pipeline"
	"github.com/opmodel/cratekit/internal/vcs"
	"github.com/opmodel/cratekit/internal/version"
)

// Dependencies builds the external collaborators of a run. Tests replace
// them with fakes.
type Dependencies struct {
	// Filesystem returns the filesystem rooted at the project directory.
	Filesystem func(root string) billy.Filesystem

	// Initializer returns the unit initializer.
	Initializer func(cfg config.Config, fs billy.Filesystem) crate.Initializer

	// VCS returns the version-control system.
	VCS func(cfg config.Config, fs billy.Filesystem) vcs.VCS

	// Environment returns the toolchain check.
	Environment func() pipeline.Environment
}

// DefaultDependencies returns the production collaborators: the OS
// filesystem, cargo, go-git and PATH lookup.
func DefaultDependencies() Dependencies {
	return Dependencies{
		Filesystem: func(root string) billy.Filesystem {
			return osfs.New(root)
		},
		Initializer: func(cfg config.Config, _ billy.Filesystem) crate.Initializer {
			return crate.NewCargoInitializer(cfg.Root)
		},
		VCS: func(cfg config.Config, fs billy.Filesystem) vcs.VCS {
			return vcs.NewGit(fs, cfg.Author)
		},
		Environment: func() pipeline.Environment {
			return version.NewDetector()
		},
	}
}

// RunScaffoldOpts holds the inputs of RunScaffold.
type RunScaffoldOpts struct {
	Config   config.Config
	Deps     Dependencies
	Reporter *output.Reporter
}

// RunScaffold wires the executor and collaborators for cfg and runs the
// pipeline. A dry run gets the simulated executor.
func RunScaffold(ctx context.Context, opts RunScaffoldOpts) (output.RunReport, error) {
	cfg := opts.Config
	fs := opts.Deps.Filesystem(cfg.Root)

	var exec fsops.Executor
	if cfg.DryRun {
		exec = fsops.NewSimulated(fs)
	} else {
		exec = fsops.NewReal(fs)
	}

	p := pipeline.NewPipeline(cfg, pipeline.Options{
		Executor:    exec,
		Initializer: opts.Deps.Initializer(cfg, fs),
		VCS:         opts.Deps.VCS(cfg, fs),
		Environment: opts.Deps.Environment(),
		Reporter:    opts.Reporter,
	})
	return p.Run(ctx)
}

// LogResolvedConfig logs how each setting was chosen at debug level.
func LogResolvedConfig(rep *output.Reporter, values []config.ResolvedValue) {
	for _, v := range values {
		rep.Debug("config", "key", v.Key, "value", v.Value, "source", string(v.Source))
	}
}
