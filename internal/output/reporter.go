package output

import (
	"io"
	"os"
	"strings"
	"sync"

	udiff "github.com/aymanbagabas/go-udiff"
	"github.com/charmbracelet/log"

	"github.com/opmodel/cratekit/internal/action"
)

// syncWriter serializes writes from the pipeline and a progress ticker.
type syncWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (s syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// ReporterOptions configures a Reporter.
type ReporterOptions struct {
	// Out receives the end-of-run summary. Defaults to os.Stdout.
	Out io.Writer

	// Err receives log lines and progress. Defaults to os.Stderr.
	Err io.Writer

	// Verbose enables debug output and overwrite previews.
	Verbose bool

	// Interactive enables animated progress indicators.
	Interactive bool
}

// Reporter is the leveled console reporter for one run.
type Reporter struct {
	out         io.Writer
	err         io.Writer
	logger      *log.Logger
	verbose     bool
	interactive bool
	active      *Progress
}

// NewReporter creates a reporter.
func NewReporter(opts ReporterOptions) *Reporter {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	errw := opts.Err
	if errw == nil {
		errw = os.Stderr
	}
	errw = syncWriter{mu: &sync.Mutex{}, w: errw}

	return &Reporter{
		out:         out,
		err:         errw,
		logger:      NewLogger(errw, LogConfig{Verbose: opts.Verbose}),
		verbose:     opts.Verbose,
		interactive: opts.Interactive,
	}
}

// Out returns the summary writer.
func (r *Reporter) Out() io.Writer {
	return r.out
}

// Debug logs a debug message.
func (r *Reporter) Debug(msg string, keyvals ...interface{}) {
	r.logger.Debug(msg, keyvals...)
}

// Info logs an info message.
func (r *Reporter) Info(msg string, keyvals ...interface{}) {
	r.logger.Info(msg, keyvals...)
}

// Warn logs a warning message.
func (r *Reporter) Warn(msg string, keyvals ...interface{}) {
	r.logger.Warn(msg, keyvals...)
}

// Error logs an error message with the [ERR] prefix.
func (r *Reporter) Error(msg string, keyvals ...interface{}) {
	r.logger.Error(msg, keyvals...)
}

// Success logs a checkmarked completion line.
func (r *Reporter) Success(msg string) {
	r.logger.Info(FormatCheckmark(msg))
}

// Report logs one action result at the level matching its outcome.
func (r *Reporter) Report(res action.Result) {
	switch res.Kind {
	case action.Created:
		r.Success(res.String())
	case action.Skipped:
		r.Info(res.String())
	case action.BackedUp:
		r.Warn(res.String())
	case action.Simulated:
		r.Info("[dry-run] " + res.String())
	case action.Failed:
		r.Error(res.String())
	default:
		r.Debug(res.String())
	}
}

// Diff logs a unified diff of an overwrite at debug level.
func (r *Reporter) Diff(path string, before, after []byte) {
	if !r.verbose {
		return
	}
	diff := udiff.Unified("a/"+path, "b/"+path, string(before), string(after))
	if diff == "" {
		return
	}
	r.logger.Debug("overwrite preview", "path", path)
	var sb strings.Builder
	for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		sb.WriteString("    ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	_, _ = io.WriteString(r.err, sb.String())
}

// StartSpinner starts a spinner for msg. Any live indicator is stopped first.
func (r *Reporter) StartSpinner(msg string) *Progress {
	return r.start(msg, spinnerStyle)
}

// StartDots starts dotted progress for msg. Any live indicator is stopped first.
func (r *Reporter) StartDots(msg string) *Progress {
	return r.start(msg, dotsStyle)
}

func (r *Reporter) start(msg string, style progressStyle) *Progress {
	if r.active != nil {
		r.active.Stop("", true)
	}

	if !r.interactive {
		r.Info(msg)
		return noopProgress()
	}

	p := startProgress(r.err, msg, style)
	p.onStop = func(stopped *Progress) {
		if r.active == stopped {
			r.active = nil
		}
	}
	r.active = p
	return p
}
