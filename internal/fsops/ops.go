package fsops

import (
	"bytes"
	"errors"
	"io/fs"
	"path"
	"time"

	"github.com/opmodel/cratekit/internal/action"
	"github.com/opmodel/cratekit/internal/config"
	oerrors "github.com/opmodel/cratekit/internal/errors"
	"github.com/opmodel/cratekit/internal/output"
)

// BackupTimeFormat is the UTC timestamp layout of backup suffixes. It has
// second resolution; two forced overwrites of one path within the same
// second reuse the same backup name.
const BackupTimeFormat = "20060102T150405Z"

const (
	// SkipExistsReason is the skip reason for an existing file without force.
	SkipExistsReason = "exists; use --force to overwrite"

	// SkipKeptReason is the skip reason for an existing file that force
	// does not replace.
	SkipKeptReason = "exists; never overwritten"
)

// Ops provides the file-producing primitives of a run.
type Ops struct {
	exec  Executor
	force bool
	log   *action.Log
	rep   *output.Reporter
	now   func() time.Time
}

// Option configures Ops.
type Option func(*Ops)

// WithClock sets the clock used for backup timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Ops) {
		o.now = now
	}
}

// New creates Ops over exec. Results are recorded in log; rep receives
// overwrite previews and may be nil.
func New(exec Executor, cfg config.Config, log *action.Log, rep *output.Reporter, opts ...Option) *Ops {
	o := &Ops{
		exec:  exec,
		force: cfg.Force,
		log:   log,
		rep:   rep,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Executor returns the underlying executor.
func (o *Ops) Executor() Executor {
	return o.exec
}

// Force reports whether existing targets are replaced.
func (o *Ops) Force() bool {
	return o.force
}

// Record appends r to the action log unchanged.
func (o *Ops) Record(r action.Result) action.Result {
	return o.log.Record(r)
}

// Finish records the outcome of a mutation. In a dry run the result becomes
// Simulated with wouldDo as its description; otherwise r is recorded as is.
func (o *Ops) Finish(r action.Result, wouldDo string) action.Result {
	if o.exec.DryRun() {
		return o.log.Record(action.Simulate(r.Path, wouldDo))
	}
	return o.log.Record(r)
}

// Fail records a Failed result and returns the action error for it.
func (o *Ops) Fail(p, operation string, err error) (action.Result, error) {
	res := o.log.Record(action.Fail(p, err))
	return res, oerrors.NewActionError(operation, p, err)
}

// Exists reports whether p exists.
func (o *Ops) Exists(p string) (bool, error) {
	_, err := o.exec.Stat(p)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// BackupPath returns the backup destination for p at the current time.
func (o *Ops) BackupPath(p string) string {
	return p + ".backup." + o.now().UTC().Format(BackupTimeFormat)
}

// BackupIfExists moves p aside to BackupPath(p) when it exists. It returns
// the backup destination, or "" when p does not exist.
func (o *Ops) BackupIfExists(p string) (string, error) {
	exists, err := o.Exists(p)
	if err != nil {
		_, err = o.Fail(p, "stat "+p, err)
		return "", err
	}
	if !exists {
		return "", nil
	}

	dest := o.BackupPath(p)
	if err := o.exec.Rename(p, dest); err != nil {
		_, err = o.Fail(p, "back up "+p+" to "+dest, err)
		return "", err
	}

	o.Finish(action.Backup(p, dest), "back up "+p+" to "+dest)
	return dest, nil
}

// WriteIfAbsentOrForced writes content to p when p is absent. An existing p
// is skipped unless force is set, in which case it is backed up first.
func (o *Ops) WriteIfAbsentOrForced(p string, content []byte) (action.Result, error) {
	return o.writeFile(p, content, o.force, SkipExistsReason)
}

// WriteIfAbsent writes content to p only when p is absent, regardless of
// force.
func (o *Ops) WriteIfAbsent(p string, content []byte) (action.Result, error) {
	return o.writeFile(p, content, false, SkipKeptReason)
}

func (o *Ops) writeFile(p string, content []byte, replace bool, skipReason string) (action.Result, error) {
	exists, err := o.Exists(p)
	if err != nil {
		return o.Fail(p, "stat "+p, err)
	}

	if exists {
		if !replace {
			return o.Record(action.Skip(p, skipReason)), nil
		}
		if before, err := o.exec.ReadFile(p); err == nil && o.rep != nil {
			o.rep.Diff(p, before, content)
		}
		if _, err := o.BackupIfExists(p); err != nil {
			return action.Fail(p, err), err
		}
	}

	return o.put(p, content, "", "write "+p)
}

// AppendIfMissing appends block to p unless p already contains marker.
// A missing p is created with block as its content.
func (o *Ops) AppendIfMissing(p, marker string, block []byte) (action.Result, error) {
	current, err := o.exec.ReadFile(p)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return o.Fail(p, "read "+p, err)
	}
	if bytes.Contains(current, []byte(marker)) {
		return o.Record(action.Skip(p, marker+" already present")), nil
	}

	if err := o.mkdirParent(p); err != nil {
		return o.Fail(p, "create parent of "+p, err)
	}
	if err := o.exec.AppendFile(p, block); err != nil {
		return o.Fail(p, "append to "+p, err)
	}
	return o.Finish(action.Create(p, "appended "+marker), "append "+marker+" to "+p), nil
}

// Overwrite replaces p with content without a backup. It is skipped only
// when p already holds exactly content.
func (o *Ops) Overwrite(p string, content []byte) (action.Result, error) {
	current, err := o.exec.ReadFile(p)
	switch {
	case err == nil && bytes.Equal(current, content):
		return o.Record(action.Skip(p, "already up to date")), nil
	case err == nil:
		if o.rep != nil {
			o.rep.Diff(p, current, content)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return o.Fail(p, "read "+p, err)
	}

	return o.put(p, content, "overwritten", "overwrite "+p)
}

// put creates the parent of p and writes content.
func (o *Ops) put(p string, content []byte, note, wouldDo string) (action.Result, error) {
	if err := o.mkdirParent(p); err != nil {
		return o.Fail(p, "create parent of "+p, err)
	}
	if err := o.exec.WriteFile(p, content); err != nil {
		return o.Fail(p, "write "+p, err)
	}
	return o.Finish(action.Create(p, note), wouldDo), nil
}

func (o *Ops) mkdirParent(p string) error {
	dir := path.Dir(p)
	if dir == "." || dir == "/" {
		return nil
	}
	return o.exec.MkdirAll(dir)
}
