package provisioning

import (
	"errors"
	"fmt"
	"time"
)

// WarningError marks a step error as non-fatal.
type WarningError struct {
	Err error
}

func (e *WarningError) Error() string {
	return e.Err.Error()
}

func (e *WarningError) Unwrap() error {
	return e.Err
}

// Warning marks err as a warning: it is logged and reported but never
// counts as a failure.
func Warning(err error) error {
	if err == nil {
		return nil
	}
	return &WarningError{Err: err}
}

// IsWarning checks if an error was marked with Warning.
func IsWarning(err error) bool {
	var w *WarningError
	return errors.As(err, &w)
}

// SkipError reports a step that did not run because its input is missing.
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string {
	return "skipped: " + e.Reason
}

// Skip returns an error that records the step as skipped.
func Skip(format string, args ...interface{}) error {
	return &SkipError{Reason: fmt.Sprintf(format, args...)}
}

// IsSkip checks if an error was created by Skip.
func IsSkip(err error) bool {
	var s *SkipError
	return errors.As(err, &s)
}

// Step runs fn as one named step of a phase and records its outcome in the
// report. Only failures are returned; warnings and skips are recorded and
// logged.
func (c *Context) Step(phase, name, resource string, fn func() error) error {
	start := time.Now()
	err := fn()

	step := Step{
		Phase:    phase,
		Name:     name,
		Resource: resource,
		Duration: time.Since(start),
	}

	switch {
	case err == nil:
		step.Status = StatusOK
	case IsSkip(err):
		step.Status = StatusSkipped
		step.Err = err
		c.Observer.Event(Event{Type: EventStepSkipped, Phase: phase, Resource: resource, Message: fmt.Sprintf("%s %v", name, err)})
		err = nil
	case IsWarning(err):
		step.Status = StatusWarning
		step.Err = err
		c.Observer.Event(Event{Type: EventStepWarning, Phase: phase, Resource: resource, Message: fmt.Sprintf("%s: %v", name, err)})
		err = nil
	default:
		step.Status = StatusFailed
		step.Err = err
		c.Observer.Event(Event{Type: EventStepFailed, Phase: phase, Resource: resource, Message: fmt.Sprintf("%s failed: %v", name, err)})
	}

	c.Report.Record(step)
	return err
}
