package cmdutil

import (
	"errors"

	oerrors "github.com/opmodel/cratekit/internal/errors"
	"github.com/opmodel/cratekit/internal/output"
	"github.com/opmodel/cratekit/internal/pipeline"
)

// PrintRunError reports a failed run. A DetailError is printed as a short
// summary line followed by its location and hint; anything else falls back
// to the key-value log format.
func PrintRunError(rep *output.Reporter, err error) {
	step := ""
	var stepErr *pipeline.StepError
	if errors.As(err, &stepErr) {
		step = stepErr.Step
	}

	var detail *oerrors.DetailError
	if errors.As(err, &detail) {
		keyvals := []interface{}{}
		if step != "" {
			keyvals = append(keyvals, "step", step)
		}
		if detail.Location != "" {
			keyvals = append(keyvals, "path", detail.Location)
		}
		for k, v := range detail.Context {
			keyvals = append(keyvals, k, v)
		}
		rep.Error(detail.Type+": "+detail.Message, keyvals...)
		if detail.Hint != "" {
			rep.Info(detail.Hint)
		}
		return
	}

	if step != "" {
		rep.Error("run failed", "step", step, "error", stepErr.Err)
		return
	}
	rep.Error("run failed", "error", err)
}
