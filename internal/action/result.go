// Package action defines the outcome of a single scaffolding action and the
// append-only log that collects those outcomes for the end-of-run summary.
package action

import "fmt"

// Kind is the outcome category of an action.
type Kind int

const (
	// Created means the action wrote or initialized something.
	Created Kind = iota + 1

	// Skipped means the target already satisfied the action.
	Skipped

	// BackedUp means an existing path was moved aside before being replaced.
	BackedUp

	// Simulated means a dry run decided the action would happen.
	Simulated

	// Failed means the action was attempted and failed.
	Failed
)

// String returns the lowercase status word for the kind.
func (k Kind) String() string {
	switch k {
	case Created:
		return "created"
	case Skipped:
		return "skipped"
	case BackedUp:
		return "backed up"
	case Simulated:
		return "simulated"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind as its status word.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Result is the outcome of one filesystem action.
type Result struct {
	// Kind is the outcome category.
	Kind Kind `json:"kind" yaml:"kind"`

	// Path is the target path, relative to the project root.
	Path string `json:"path" yaml:"path"`

	// Detail is the skip reason, the simulated operation or a note on a
	// created path.
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`

	// BackupPath is where the original was moved (BackedUp only).
	BackupPath string `json:"backupPath,omitempty" yaml:"backupPath,omitempty"`

	// Err is the failure cause (Failed only).
	Err error `json:"-" yaml:"-"`
}

// Create returns a Created result.
func Create(path, detail string) Result {
	return Result{Kind: Created, Path: path, Detail: detail}
}

// Skip returns a Skipped result with the reason.
func Skip(path, reason string) Result {
	return Result{Kind: Skipped, Path: path, Detail: reason}
}

// Backup returns a BackedUp result.
func Backup(path, backupPath string) Result {
	return Result{Kind: BackedUp, Path: path, BackupPath: backupPath}
}

// Simulate returns a Simulated result describing what would be done.
func Simulate(path, wouldDo string) Result {
	return Result{Kind: Simulated, Path: path, Detail: wouldDo}
}

// Fail returns a Failed result.
func Fail(path string, err error) Result {
	return Result{Kind: Failed, Path: path, Err: err}
}

// String renders the result as a single human-readable line.
func (r Result) String() string {
	switch r.Kind {
	case Created:
		if r.Detail != "" {
			return fmt.Sprintf("created %s (%s)", r.Path, r.Detail)
		}
		return "created " + r.Path
	case Skipped:
		return fmt.Sprintf("skipped %s: %s", r.Path, r.Detail)
	case BackedUp:
		return fmt.Sprintf("backed up %s to %s", r.Path, r.BackupPath)
	case Simulated:
		return "would " + r.Detail
	case Failed:
		return fmt.Sprintf("failed %s: %v", r.Path, r.Err)
	default:
		return r.Path
	}
}
