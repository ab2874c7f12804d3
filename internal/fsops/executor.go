// Package fsops implements the dry-run aware filesystem primitives of a
// scaffolding run.
//
// Every primitive is written once against the Executor capability. The real
// executor performs I/O through a billy.Filesystem rooted at the project
// directory; the simulated executor only records the mutations it was asked
// to perform and answers later reads as if they had happened, so a dry run
// makes the same decisions without touching the directory.
package fsops

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Executor performs or records filesystem mutations. Paths are relative to
// the project root and slash-separated.
type Executor interface {
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)

	// ReadFile returns the contents of path.
	ReadFile(path string) ([]byte, error)

	// MkdirAll creates path and any missing parents.
	MkdirAll(path string) error

	// WriteFile creates or truncates path with data.
	WriteFile(path string, data []byte) error

	// AppendFile appends data to path, creating it if absent.
	AppendFile(path string, data []byte) error

	// Rename moves from to to.
	Rename(from, to string) error

	// Run executes fn, an external command described by command.
	Run(ctx context.Context, command string, fn func(context.Context) error) error

	// DryRun reports whether mutations are only recorded.
	DryRun() bool
}

// reader provides the read side shared by both executors.
type reader struct {
	fs billy.Filesystem
}

func (r reader) Stat(path string) (fs.FileInfo, error) {
	return r.fs.Stat(path)
}

func (r reader) ReadFile(path string) ([]byte, error) {
	return util.ReadFile(r.fs, path)
}

// RealExecutor performs filesystem mutations.
type RealExecutor struct {
	reader
}

// NewReal creates an executor that mutates fs.
func NewReal(fs billy.Filesystem) *RealExecutor {
	return &RealExecutor{reader{fs: fs}}
}

// MkdirAll implements Executor.
func (e *RealExecutor) MkdirAll(path string) error {
	return e.fs.MkdirAll(path, dirPerm)
}

// WriteFile implements Executor.
func (e *RealExecutor) WriteFile(path string, data []byte) error {
	return util.WriteFile(e.fs, path, data, filePerm)
}

// AppendFile implements Executor.
func (e *RealExecutor) AppendFile(path string, data []byte) error {
	f, err := e.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, filePerm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Rename implements Executor.
func (e *RealExecutor) Rename(from, to string) error {
	return e.fs.Rename(from, to)
}

// Run implements Executor.
func (e *RealExecutor) Run(ctx context.Context, _ string, fn func(context.Context) error) error {
	return fn(ctx)
}

// DryRun implements Executor.
func (e *RealExecutor) DryRun() bool {
	return false
}

// OpKind is the kind of a recorded mutation.
type OpKind string

const (
	OpMkdir  OpKind = "mkdir"
	OpWrite  OpKind = "write"
	OpAppend OpKind = "append"
	OpRename OpKind = "rename"
	OpRun    OpKind = "run"
)

// Op is a mutation a simulated executor was asked to perform.
type Op struct {
	Kind   OpKind
	Path   string
	Target string
	Bytes  int
}

// String renders the op as a "would" phrase.
func (o Op) String() string {
	switch o.Kind {
	case OpRename:
		return fmt.Sprintf("rename %s to %s", o.Path, o.Target)
	case OpRun:
		return "run " + o.Path
	case OpWrite, OpAppend:
		return fmt.Sprintf("%s %s (%d bytes)", o.Kind, o.Path, o.Bytes)
	default:
		return fmt.Sprintf("%s %s", o.Kind, o.Path)
	}
}

// SimulatedExecutor records mutations without performing them. Reads see
// the state the recorded mutations would produce: written and appended
// files come from an in-memory overlay, paths moved away no longer exist,
// and a move destination shows what was moved there.
type SimulatedExecutor struct {
	reader
	overlay billy.Filesystem
	removed []string
	moved   map[string]string
	ops     []Op
}

// NewSimulated creates an executor that reads fs and records mutations.
func NewSimulated(fs billy.Filesystem) *SimulatedExecutor {
	return &SimulatedExecutor{
		reader:  reader{fs: fs},
		overlay: memfs.New(),
		moved:   make(map[string]string),
	}
}

// Ops returns the recorded mutations in order.
func (e *SimulatedExecutor) Ops() []Op {
	out := make([]Op, len(e.ops))
	copy(out, e.ops)
	return out
}

// Stat implements Executor.
func (e *SimulatedExecutor) Stat(p string) (fs.FileInfo, error) {
	p = path.Clean(p)
	if fi, err := e.overlay.Stat(p); err == nil {
		return fi, nil
	}
	src, ok := e.resolve(p)
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: p, Err: fs.ErrNotExist}
	}
	return e.fs.Stat(src)
}

// ReadFile implements Executor.
func (e *SimulatedExecutor) ReadFile(p string) ([]byte, error) {
	p = path.Clean(p)
	if data, err := util.ReadFile(e.overlay, p); err == nil {
		return data, nil
	}
	src, ok := e.resolve(p)
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
	}
	return util.ReadFile(e.fs, src)
}

// resolve maps p to its path on the underlying filesystem. It reports false
// when p was moved away and nothing was moved back in its place.
func (e *SimulatedExecutor) resolve(p string) (string, bool) {
	for to, from := range e.moved {
		if rest, ok := under(p, to); ok {
			return path.Join(from, rest), true
		}
	}
	for _, r := range e.removed {
		if _, ok := under(p, r); ok {
			return "", false
		}
	}
	return p, true
}

// under reports whether p is dir or inside it, with the remainder.
func under(p, dir string) (string, bool) {
	if p == dir {
		return ".", true
	}
	if strings.HasPrefix(p, dir+"/") {
		return strings.TrimPrefix(p, dir+"/"), true
	}
	return "", false
}

// MkdirAll implements Executor.
func (e *SimulatedExecutor) MkdirAll(p string) error {
	e.ops = append(e.ops, Op{Kind: OpMkdir, Path: p})
	return e.overlay.MkdirAll(path.Clean(p), dirPerm)
}

// WriteFile implements Executor.
func (e *SimulatedExecutor) WriteFile(p string, data []byte) error {
	e.ops = append(e.ops, Op{Kind: OpWrite, Path: p, Bytes: len(data)})
	return util.WriteFile(e.overlay, path.Clean(p), data, filePerm)
}

// AppendFile implements Executor.
func (e *SimulatedExecutor) AppendFile(p string, data []byte) error {
	e.ops = append(e.ops, Op{Kind: OpAppend, Path: p, Bytes: len(data)})
	current, err := e.ReadFile(p)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return util.WriteFile(e.overlay, path.Clean(p), append(current, data...), filePerm)
}

// Rename implements Executor. Only moves of paths that exist on the
// underlying filesystem are tracked; the overlay copy of from is dropped.
func (e *SimulatedExecutor) Rename(from, to string) error {
	e.ops = append(e.ops, Op{Kind: OpRename, Path: from, Target: to})
	from, to = path.Clean(from), path.Clean(to)
	if src, ok := e.resolve(from); ok {
		e.moved[to] = src
	}
	e.removed = append(e.removed, from)
	if err := util.RemoveAll(e.overlay, from); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Run implements Executor. fn is never called.
func (e *SimulatedExecutor) Run(_ context.Context, command string, _ func(context.Context) error) error {
	e.ops = append(e.ops, Op{Kind: OpRun, Path: command})
	return nil
}

// DryRun implements Executor.
func (e *SimulatedExecutor) DryRun() bool {
	return true
}
