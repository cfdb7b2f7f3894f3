package provisioning

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// StepStatus is the outcome of one step.
type StepStatus string

const (
	// StatusOK means the step succeeded.
	StatusOK StepStatus = "ok"
	// StatusWarning means the step finished with a non-fatal problem.
	StatusWarning StepStatus = "warning"
	// StatusFailed means the provider call failed.
	StatusFailed StepStatus = "failed"
	// StatusSkipped means the step did not run.
	StatusSkipped StepStatus = "skipped"
)

// Step is the recorded outcome of one operation of the run.
type Step struct {
	Phase    string
	Name     string
	Resource string
	Status   StepStatus
	Err      error
	Duration time.Duration
}

// Report is the ordered record of step outcomes for one run.
// It is safe for concurrent use.
type Report struct {
	RunID   string
	Started time.Time

	mu       sync.Mutex
	steps    []Step
	finished time.Time
}

// NewReport creates an empty report for a run.
func NewReport(runID string) *Report {
	return &Report{
		RunID:   runID,
		Started: time.Now(),
	}
}

// Record appends a step outcome.
func (r *Report) Record(step Step) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, step)
}

// Finish marks the end of the run.
func (r *Report) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = time.Now()
}

// Duration returns the wall-clock run time, or the time elapsed so far.
func (r *Report) Duration() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished.IsZero() {
		return time.Since(r.Started)
	}
	return r.finished.Sub(r.Started)
}

// Steps returns a copy of all recorded steps in order.
func (r *Report) Steps() []Step {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Step(nil), r.steps...)
}

// Count returns the number of steps with the given status.
func (r *Report) Count(status StepStatus) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.steps {
		if s.Status == status {
			n++
		}
	}
	return n
}

// Failed reports whether any step failed.
func (r *Report) Failed() bool {
	return r.Count(StatusFailed) > 0
}

// Err joins the errors of all failed steps, or returns nil.
func (r *Report) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	for _, s := range r.steps {
		if s.Status == StatusFailed {
			errs = append(errs, fmt.Errorf("%s/%s: %w", s.Phase, s.Name, s.Err))
		}
	}
	return errors.Join(errs...)
}

// Summary returns a one-line count of step outcomes.
func (r *Report) Summary() string {
	parts := make([]string, 0, 4)
	for _, status := range []StepStatus{StatusOK, StatusWarning, StatusFailed, StatusSkipped} {
		parts = append(parts, fmt.Sprintf("%d %s", r.Count(status), status))
	}
	return strings.Join(parts, ", ")
}
