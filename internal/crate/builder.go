// Package crate creates single compilable units through an external
// toolchain initializer.
package crate

import (
	"context"
	"path"

	"github.com/opmodel/cratekit/internal/action"
	"github.com/opmodel/cratekit/internal/config"
	"github.com/opmodel/cratekit/internal/fsops"
	"github.com/opmodel/cratekit/internal/output"
)

// ManifestFile is the manifest whose presence marks an initialized unit.
const ManifestFile = "Cargo.toml"

// RootDir is the unit directory of a unit at the project root.
const RootDir = "."

// Unit is a single compilable project unit.
type Unit struct {
	// Dir is the unit directory relative to the project root.
	Dir string

	// Name is the package name. Defaults to the base name of Dir.
	Name string

	// Kind selects a binary or library unit.
	Kind config.UnitKind
}

// NewUnit returns a unit at dir, naming it after dir when name is empty.
func NewUnit(dir, name string, kind config.UnitKind) Unit {
	if name == "" {
		name = path.Base(dir)
	}
	return Unit{Dir: dir, Name: name, Kind: kind}
}

// Manifest returns the unit's manifest path.
func (u Unit) Manifest() string {
	return path.Join(u.Dir, ManifestFile)
}

// SourceFile returns the unit's primary source file path.
func (u Unit) SourceFile() string {
	return path.Join(u.Dir, u.Kind.SourceFile())
}

// IsRoot reports whether the unit lives at the project root.
func (u Unit) IsRoot() bool {
	return u.Dir == RootDir || u.Dir == ""
}

// Builder realizes units.
type Builder struct {
	ops         *fsops.Ops
	initializer Initializer
	edition     string
	rep         *output.Reporter

	backups []string
}

// NewBuilder creates a Builder. rep may be nil.
func NewBuilder(ops *fsops.Ops, initializer Initializer, cfg config.Config, rep *output.Reporter) *Builder {
	return &Builder{
		ops:         ops,
		initializer: initializer,
		edition:     cfg.Edition,
		rep:         rep,
	}
}

// EnsureUnit creates u unless its manifest already exists. With force an
// existing unit directory is moved to a backup first; for the root unit only
// its manifest is moved.
func (b *Builder) EnsureUnit(ctx context.Context, u Unit) (action.Result, error) {
	manifest := u.Manifest()
	exists, err := b.ops.Exists(manifest)
	if err != nil {
		return b.ops.Fail(manifest, "stat "+manifest, err)
	}

	if exists {
		if !b.ops.Force() {
			return b.ops.Record(action.Skip(u.Dir, "already exists")), nil
		}
		target := u.Dir
		if u.IsRoot() {
			target = manifest
		}
		dest, err := b.ops.BackupIfExists(target)
		if err != nil {
			return action.Fail(u.Dir, err), err
		}
		if !u.IsRoot() && dest != "" {
			b.backups = append(b.backups, dest)
		}
	}

	req := Request{Dir: u.Dir, Name: u.Name, Kind: u.Kind, Edition: b.edition}
	command := b.initializer.Command(req)

	exec := b.ops.Executor()
	if !u.IsRoot() {
		if err := exec.MkdirAll(u.Dir); err != nil {
			return b.ops.Fail(u.Dir, "create "+u.Dir, err)
		}
	}

	err = exec.Run(ctx, command, func(ctx context.Context) error {
		var progress *output.Progress
		if b.rep != nil {
			progress = b.rep.StartSpinner("Initializing " + u.Name)
		}
		err := b.initializer.Init(ctx, req)
		if progress != nil {
			if err != nil {
				progress.Stop("Failed to initialize "+u.Name, false)
			} else {
				progress.Stop("Initialized "+u.Name, true)
			}
		}
		return err
	})
	if err != nil {
		return b.ops.Fail(u.Dir, command, err)
	}

	return b.ops.Finish(action.Create(u.Dir, string(u.Kind)), "run "+command), nil
}

// Backups returns the directories that unit directories were moved to, in
// the order they were moved.
func (b *Builder) Backups() []string {
	return append([]string(nil), b.backups...)
}
