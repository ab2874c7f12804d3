// Package pipeline sequences a scaffolding run: toolchain check, root files,
// topology, CI placeholder and VCS initialization.
package pipeline

import (
	"context"
	"time"

	"github.com/opmodel/cratekit/internal/action"
	"github.com/opmodel/cratekit/internal/config"
	"github.com/opmodel/cratekit/internal/crate"
	"github.com/opmodel/cratekit/internal/fsops"
	"github.com/opmodel/cratekit/internal/output"
	"github.com/opmodel/cratekit/internal/templates"
	"github.com/opmodel/cratekit/internal/topology"
	"github.com/opmodel/cratekit/internal/vcs"
	"github.com/opmodel/cratekit/internal/version"
)

// Step names.
const (
	StepEnvironment = "environment"
	StepRootFiles   = "root files"
	StepTopology    = "topology"
	StepCI          = "ci"
	StepVCS         = "vcs"
)

// vcsCommand describes the VCS sequence for dry-run output.
const vcsCommand = "git init && git add --all && git commit"

// Environment checks that the external toolchain is installed.
type Environment interface {
	Check(ctx context.Context) (version.ToolchainInfo, error)
}

// Pipeline runs one scaffolding run.
type Pipeline interface {
	// Run executes every step in order and stops at the first failure.
	// The report covers every action recorded up to that point.
	Run(ctx context.Context) (output.RunReport, error)
}

// Options holds the collaborators of a run.
type Options struct {
	// Executor performs or records filesystem mutations (required).
	Executor fsops.Executor

	// Initializer creates units (required).
	Initializer crate.Initializer

	// VCS initializes the repository. Required when the config enables git.
	VCS vcs.VCS

	// Environment checks the toolchain (required).
	Environment Environment

	// Reporter receives every action result. Optional.
	Reporter *output.Reporter

	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
}

// pipeline implements the Pipeline interface.
type pipeline struct {
	cfg      config.Config
	exec     fsops.Executor
	vcs      vcs.VCS
	env      Environment
	rep      *output.Reporter
	log      *action.Log
	ops      *fsops.Ops
	orch     *topology.Orchestrator
	renderer *templates.Renderer
}

// NewPipeline creates a Pipeline for cfg.
func NewPipeline(cfg config.Config, opts Options) Pipeline {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	var log *action.Log
	if opts.Reporter != nil {
		log = action.NewLog(opts.Reporter.Report)
	} else {
		log = action.NewLog()
	}

	ops := fsops.New(opts.Executor, cfg, log, opts.Reporter, fsops.WithClock(clock))
	renderer := templates.NewRenderer(templates.NewTemplateData(cfg, clock()))
	builder := crate.NewBuilder(ops, opts.Initializer, cfg, opts.Reporter)

	return &pipeline{
		cfg:      cfg,
		exec:     opts.Executor,
		vcs:      opts.VCS,
		env:      opts.Environment,
		rep:      opts.Reporter,
		log:      log,
		ops:      ops,
		orch:     topology.NewOrchestrator(cfg, ops, builder, renderer, opts.Reporter),
		renderer: renderer,
	}
}

// Run executes the pipeline.
//
// Step sequence:
//  1. ENVIRONMENT: toolchain presence check, fatal in dry-run too
//  2. ROOT FILES:  README.md, .gitignore, LICENSE
//  3. TOPOLOGY:    workspace manifest, units, test skeleton, discovery body
//  4. CI:          workflow placeholder (when enabled)
//  5. VCS:         init, stage all, commit (when enabled)
//
// Files written by earlier steps are left in place when a later step fails.
func (p *pipeline) Run(ctx context.Context) (output.RunReport, error) {
	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{StepEnvironment, p.checkEnvironment},
		{StepRootFiles, p.writeRootFiles},
		{StepTopology, p.orch.Apply},
		{StepCI, p.writeCI},
		{StepVCS, p.initVCS},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return p.report(), err
		}
		p.debug("running step", "step", step.name)
		if err := step.run(ctx); err != nil {
			return p.report(), &StepError{Step: step.name, Err: err}
		}
	}

	return p.report(), nil
}

func (p *pipeline) report() output.RunReport {
	return output.RunReport{
		Project: p.cfg.Name,
		Root:    p.cfg.Root,
		DryRun:  p.exec.DryRun(),
		Summary: p.log.Summary(),
		Actions: p.log.Entries(),
	}
}

func (p *pipeline) debug(msg string, keyvals ...interface{}) {
	if p.rep != nil {
		p.rep.Debug(msg, keyvals...)
	}
}

func (p *pipeline) checkEnvironment(ctx context.Context) error {
	info, err := p.env.Check(ctx)
	if err != nil {
		return err
	}
	p.debug("toolchain detected", "cargo", info.Cargo.Version, "rustc", info.Rustc.Version)
	return nil
}

func (p *pipeline) writeRootFiles(_ context.Context) error {
	for _, tmpl := range templates.RootFiles() {
		if err := p.writeTemplate(tmpl); err != nil {
			return err
		}
	}
	return nil
}

func (p *pipeline) writeTemplate(tmpl templates.Template) error {
	content, err := p.renderer.Render(tmpl.Name)
	if err != nil {
		_, err = p.ops.Fail(tmpl.Target, "render "+tmpl.Target, err)
		return err
	}
	_, err = p.ops.WriteIfAbsentOrForced(tmpl.Target, content)
	return err
}

func (p *pipeline) writeCI(_ context.Context) error {
	if !p.cfg.WithCI {
		return nil
	}
	tmpl, err := templates.Get(templates.CI)
	if err != nil {
		return err
	}
	return p.writeTemplate(tmpl)
}

func (p *pipeline) initVCS(ctx context.Context) error {
	if !p.cfg.WithGit {
		return nil
	}

	exists, err := p.ops.Exists(vcs.DirName)
	if err != nil {
		_, err = p.ops.Fail(vcs.DirName, "stat "+vcs.DirName, err)
		return err
	}
	if exists {
		p.ops.Record(action.Skip(vcs.DirName, "repository already exists"))
		return nil
	}

	err = p.exec.Run(ctx, vcsCommand, func(ctx context.Context) error {
		var progress *output.Progress
		if p.rep != nil {
			progress = p.rep.StartDots("Initializing git repository")
		}
		err := p.commitAll(ctx)
		if progress != nil {
			if err != nil {
				progress.Stop("Git initialization failed", false)
			} else {
				progress.Stop("Git repository initialized", true)
			}
		}
		return err
	})
	if err != nil {
		_, err = p.ops.Fail(vcs.DirName, vcsCommand, err)
		return err
	}

	p.ops.Finish(action.Create(vcs.DirName, "initial commit"), "initialize git repository with an initial commit")
	return nil
}

func (p *pipeline) commitAll(ctx context.Context) error {
	if err := p.vcs.Init(ctx, crate.RootDir); err != nil {
		return err
	}
	if err := p.vcs.StageAll(ctx, crate.RootDir); err != nil {
		return err
	}
	return p.vcs.Commit(ctx, crate.RootDir, vcs.DefaultCommitMessage)
}
