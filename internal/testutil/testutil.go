// Package testutil provides fakes and filesystem helpers for tests.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/opmodel/cratekit/internal/config"
	"github.com/opmodel/cratekit/internal/crate"
	oerrors "github.com/opmodel/cratekit/internal/errors"
	"github.com/opmodel/cratekit/internal/version"
)

// WriteFile creates a file with the given content, creating parents.
func WriteFile(t *testing.T, fsys billy.Filesystem, name, content string) {
	t.Helper()
	if err := util.WriteFile(fsys, name, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", name, err)
	}
}

// ReadFile returns the content of name.
func ReadFile(t *testing.T, fsys billy.Filesystem, name string) string {
	t.Helper()
	data, err := util.ReadFile(fsys, name)
	if err != nil {
		t.Fatalf("failed to read file %s: %v", name, err)
	}
	return string(data)
}

// Exists reports whether name exists.
func Exists(fsys billy.Filesystem, name string) bool {
	_, err := fsys.Stat(name)
	return err == nil
}

// Snapshot returns every regular file under fsys keyed by path, with
// directories keyed by path + "/" and an empty value. An empty filesystem
// yields an empty map.
func Snapshot(t *testing.T, fsys billy.Filesystem) map[string]string {
	t.Helper()
	out := map[string]string{}
	if _, err := fsys.Stat("/"); errors.Is(err, fs.ErrNotExist) {
		return out
	}
	if err := snapshotDir(fsys, "", out); err != nil {
		t.Fatalf("failed to snapshot filesystem: %v", err)
	}
	return out
}

func snapshotDir(fsys billy.Filesystem, dir string, out map[string]string) error {
	entries, err := fsys.ReadDir(path.Join("/", dir))
	if err != nil {
		return err
	}
	for _, entry := range entries {
		rel := path.Join(dir, entry.Name())
		if entry.IsDir() {
			out[rel+"/"] = ""
			if err := snapshotDir(fsys, rel, out); err != nil {
				return err
			}
			continue
		}
		data, err := util.ReadFile(fsys, rel)
		if err != nil {
			return err
		}
		out[rel] = string(data)
	}
	return nil
}

// Restore writes the files and directories of a snapshot into fsys.
func Restore(t *testing.T, fsys billy.Filesystem, snap map[string]string) {
	t.Helper()
	for _, p := range Paths(snap) {
		if strings.HasSuffix(p, "/") {
			if err := fsys.MkdirAll(p, 0o755); err != nil {
				t.Fatalf("failed to create %s: %v", p, err)
			}
			continue
		}
		WriteFile(t, fsys, p, snap[p])
	}
}

// Paths returns the sorted keys of a snapshot.
func Paths(snap map[string]string) []string {
	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FakeInitializer writes a minimal unit skeleton into a billy filesystem in
// place of cargo.
type FakeInitializer struct {
	FS billy.Filesystem

	// Err, when set, is returned instead of initializing.
	Err error

	mu    sync.Mutex
	calls []crate.Request
}

// Init implements crate.Initializer.
func (f *FakeInitializer) Init(_ context.Context, req crate.Request) error {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()

	if f.Err != nil {
		return f.Err
	}

	manifest := fmt.Sprintf("[package]\nname = %q\nversion = \"0.1.0\"\nedition = %q\n\n[dependencies]\n", req.Name, req.Edition)
	if err := util.WriteFile(f.FS, path.Join(req.Dir, crate.ManifestFile), []byte(manifest), 0o644); err != nil {
		return err
	}

	// Like cargo init, an existing source file is kept.
	sourcePath := path.Join(req.Dir, req.Kind.SourceFile())
	if _, err := f.FS.Stat(sourcePath); err == nil {
		return nil
	}
	source := "fn main() {\n    println!(\"Hello, world!\");\n}\n"
	if req.Kind == config.KindLibrary {
		source = "pub fn add(left: u64, right: u64) -> u64 {\n    left + right\n}\n"
	}
	return util.WriteFile(f.FS, sourcePath, []byte(source), 0o644)
}

// Command implements crate.Initializer.
func (f *FakeInitializer) Command(req crate.Request) string {
	return fmt.Sprintf("cargo init --vcs none --name %s %s --edition %s (in %s)", req.Name, req.Kind.Flag(), req.Edition, req.Dir)
}

// Calls returns the requests Init received.
func (f *FakeInitializer) Calls() []crate.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]crate.Request, len(f.calls))
	copy(out, f.calls)
	return out
}

// FakeVCS records the steps it was asked to run and creates the metadata
// directory on Init.
type FakeVCS struct {
	FS    billy.Filesystem
	Err   error
	Steps []string
}

// Init implements vcs.VCS.
func (v *FakeVCS) Init(_ context.Context, dir string) error {
	v.Steps = append(v.Steps, "init "+dir)
	if v.Err != nil {
		return v.Err
	}
	return v.FS.MkdirAll(path.Join(dir, ".git"), 0o755)
}

// StageAll implements vcs.VCS.
func (v *FakeVCS) StageAll(_ context.Context, dir string) error {
	v.Steps = append(v.Steps, "add "+dir)
	return nil
}

// Commit implements vcs.VCS.
func (v *FakeVCS) Commit(_ context.Context, dir, message string) error {
	v.Steps = append(v.Steps, "commit "+dir+": "+message)
	return nil
}

// FakeEnvironment is a toolchain check with a fixed answer.
type FakeEnvironment struct {
	Missing bool
	Calls   int
}

// Check reports a cargo 1.79.0 toolchain, or an environment error when
// Missing is set.
func (e *FakeEnvironment) Check(context.Context) (version.ToolchainInfo, error) {
	e.Calls++
	if e.Missing {
		return version.ToolchainInfo{Cargo: version.ToolInfo{Name: "cargo"}},
			oerrors.NewEnvironmentError("cargo", "cargo is not installed or not in PATH", "install the Rust toolchain")
	}
	return version.ToolchainInfo{
		Cargo: version.ToolInfo{Name: "cargo", Version: "1.79.0", Path: "/usr/bin/cargo", Found: true},
		Rustc: version.ToolInfo{Name: "rustc", Version: "1.79.0", Path: "/usr/bin/rustc", Found: true},
	}, nil
}
