package pipeline

import "fmt"

// StepError reports the pipeline step that stopped a run.
type StepError struct {
	// Step is the name of the failed step.
	Step string

	// Err is the step's error.
	Err error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

// Unwrap returns the step's error.
func (e *StepError) Unwrap() error {
	return e.Err
}
