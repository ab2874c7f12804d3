// Package topology lays out the project as a single unit or a workspace and
// drives unit creation and template injection across it.
package topology

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"

	"github.com/opmodel/cratekit/internal/action"
	"github.com/opmodel/cratekit/internal/config"
	"github.com/opmodel/cratekit/internal/crate"
	"github.com/opmodel/cratekit/internal/fsops"
	"github.com/opmodel/cratekit/internal/output"
	"github.com/opmodel/cratekit/internal/templates"
)

// Plan is the resolved layout of a run.
type Plan struct {
	// Topology is the chosen layout.
	Topology config.Topology

	// Manifest is the workspace root manifest, empty for a single unit.
	Manifest string

	// Primary is the project unit.
	Primary crate.Unit

	// Discovery is the auxiliary discovery example library.
	Discovery crate.Unit
}

// NewPlan resolves the layout for cfg.
func NewPlan(cfg config.Config) Plan {
	if cfg.Topology == config.TopologyWorkspace {
		return Plan{
			Topology:  config.TopologyWorkspace,
			Manifest:  ManifestPath,
			Primary:   crate.NewUnit(path.Join(config.MembersDir, cfg.Name), cfg.Name, cfg.Kind),
			Discovery: crate.NewUnit(path.Join(config.MembersDir, config.DiscoveryName), "", config.KindLibrary),
		}
	}
	return Plan{
		Topology:  config.TopologySingle,
		Primary:   crate.NewUnit(crate.RootDir, cfg.Name, cfg.Kind),
		Discovery: crate.NewUnit(config.DiscoveryName, "", config.KindLibrary),
	}
}

// Units returns the units of the plan in creation order.
func (p Plan) Units() []crate.Unit {
	return []crate.Unit{p.Primary, p.Discovery}
}

// Orchestrator applies a Plan.
type Orchestrator struct {
	cfg      config.Config
	plan     Plan
	ops      *fsops.Ops
	builder  *crate.Builder
	renderer *templates.Renderer
	rep      *output.Reporter

	// excludes carries the exclude list of a replaced workspace manifest.
	excludes []string
}

// NewOrchestrator creates an orchestrator for cfg. rep may be nil.
func NewOrchestrator(cfg config.Config, ops *fsops.Ops, builder *crate.Builder, renderer *templates.Renderer, rep *output.Reporter) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		plan:     NewPlan(cfg),
		ops:      ops,
		builder:  builder,
		renderer: renderer,
		rep:      rep,
	}
}

// Plan returns the plan the orchestrator applies.
func (o *Orchestrator) Plan() Plan {
	return o.plan
}

// Apply sets up the topology. The workspace manifest, when there is one,
// is settled before any member unit is created. The first failure stops
// the run.
func (o *Orchestrator) Apply(ctx context.Context) error {
	if o.plan.Topology == config.TopologyWorkspace {
		if _, err := o.EnsureWorkspaceManifest(); err != nil {
			return err
		}
	}

	if _, err := o.builder.EnsureUnit(ctx, o.plan.Primary); err != nil {
		return err
	}
	if o.cfg.NeedsTestSkeleton() {
		if err := o.InjectTestSkeleton(o.plan.Primary); err != nil {
			return err
		}
	}

	if _, err := o.builder.EnsureUnit(ctx, o.plan.Discovery); err != nil {
		return err
	}
	if _, err := o.InjectDiscovery(o.plan.Discovery); err != nil {
		return err
	}

	if o.plan.Topology == config.TopologyWorkspace {
		if _, err := o.ExcludeBackups(); err != nil {
			return err
		}
	}
	return nil
}

// EnsureWorkspaceManifest writes the root manifest declaring the members
// glob. Without force an existing workspace manifest is kept, and an
// existing manifest that is not one fails the run before any member is
// created. With force the manifest is replaced, keeping its exclude list.
func (o *Orchestrator) EnsureWorkspaceManifest() (action.Result, error) {
	current, err := o.ops.Executor().ReadFile(ManifestPath)
	exists := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return o.ops.Fail(ManifestPath, "read "+ManifestPath, err)
	}

	if exists && !o.ops.Force() {
		declares, err := DeclaresWorkspace(current)
		if err != nil {
			return o.ops.Fail(ManifestPath, "check "+ManifestPath,
				fmt.Errorf("%w; fix it or rerun with --force to replace it", err))
		}
		if !declares {
			return o.ops.Fail(ManifestPath, "check "+ManifestPath,
				errors.New("existing manifest has no [workspace] table; rerun with --force to replace it"))
		}
		return o.ops.Record(action.Skip(ManifestPath, "already declares [workspace]")), nil
	}

	if exists {
		if excludes, err := WorkspaceExcludes(current); err == nil {
			o.excludes = excludes
		}
	}

	content, err := RenderWorkspaceManifest(o.cfg, o.excludes...)
	if err != nil {
		return o.ops.Fail(ManifestPath, "render "+ManifestPath, err)
	}
	return o.ops.WriteIfAbsentOrForced(ManifestPath, content)
}

// ExcludeBackups lists member directories that were moved to a backup in the
// manifest's exclude list so the members glob does not pick them up as
// duplicate packages. It is skipped when no member directory was backed up.
func (o *Orchestrator) ExcludeBackups() (action.Result, error) {
	backups := o.builder.Backups()
	if len(backups) == 0 {
		return action.Result{}, nil
	}

	excludes := o.excludes
	for _, b := range backups {
		if !slices.Contains(excludes, b) {
			excludes = append(excludes, b)
		}
	}
	o.excludes = excludes
	if o.rep != nil {
		o.rep.Debug("excluding backed-up members from the workspace", "paths", backups)
	}

	content, err := RenderWorkspaceManifest(o.cfg, excludes...)
	if err != nil {
		return o.ops.Fail(ManifestPath, "render "+ManifestPath, err)
	}
	return o.ops.Overwrite(ManifestPath, content)
}

// InjectTestSkeleton appends the unit-test block to the unit's primary
// source file unless its marker is present, then makes sure the
// integration test file exists. An existing integration test is never
// replaced.
func (o *Orchestrator) InjectTestSkeleton(u crate.Unit) error {
	if _, err := o.ops.AppendIfMissing(u.SourceFile(), templates.SmokeTestMarker, templates.TestBlock()); err != nil {
		return err
	}

	tmpl, err := templates.Get(templates.IntegrationTest)
	if err != nil {
		return err
	}
	body, err := o.renderer.Render(templates.IntegrationTest)
	if err != nil {
		_, err = o.ops.Fail(path.Join(u.Dir, tmpl.Target), "render integration test", err)
		return err
	}
	_, err = o.ops.WriteIfAbsent(path.Join(u.Dir, tmpl.Target), body)
	return err
}

// InjectDiscovery overwrites the unit's primary source file with the
// discovery example body. Edits to that file are not preserved.
func (o *Orchestrator) InjectDiscovery(u crate.Unit) (action.Result, error) {
	body, err := o.renderer.Render(templates.Discovery)
	if err != nil {
		return o.ops.Fail(u.SourceFile(), "render discovery body", err)
	}
	return o.ops.Overwrite(u.SourceFile(), body)
}
