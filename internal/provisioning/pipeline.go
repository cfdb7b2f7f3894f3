package provisioning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudprobe/cloudprobe/internal/config"
)

// Phase defines the interface for a lifecycle phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the logic for this phase.
	Provision(ctx *Context) error
}

// CleanupPhase is implemented by phases that must still run after the
// run was aborted or interrupted.
type CleanupPhase interface {
	Phase
	RunsOnAbort() bool
}

// ErrAborted is recorded for phases skipped after an abort.
var ErrAborted = errors.New("run aborted after a failed step")

func runsOnAbort(p Phase) bool {
	c, ok := p.(CleanupPhase)
	return ok && c.RunsOnAbort()
}

// RunPhases executes all phases sequentially.
//
// Under the continue policy every phase runs regardless of failures. Under
// the abort policy, or once ctx is cancelled, remaining phases are skipped
// except cleanup phases. After a cancellation cleanup phases run detached
// from it, bounded by Timeouts.Cleanup, so created resources are still
// deleted. An interrupted run is recorded as a failed step. The returned
// error joins the errors of all failed phases and the interruption.
func RunPhases(ctx *Context, phases []Phase) error {
	start := time.Now()
	ctx.Observer.Printf("Starting lifecycle run %s with %d phases...", ctx.RunID, len(phases))

	var errs []error
	var abortReason error
	var cleanupCtx *Context

	for i, phase := range phases {
		phaseStart := time.Now()
		name := fmt.Sprintf("%s (%d/%d)", phase.Name(), i+1, len(phases))

		if abortReason == nil && ctx.Err() != nil {
			abortReason = interrupted(ctx)
		}

		pctx := ctx
		if abortReason != nil {
			if !runsOnAbort(phase) {
				LogPhaseSkipped(ctx.Observer, name, abortReason.Error())
				ctx.Report.Record(Step{
					Phase:  phase.Name(),
					Name:   "phase",
					Status: StatusSkipped,
					Err:    abortReason,
				})
				continue
			}
			if ctx.Err() != nil {
				if cleanupCtx == nil {
					detached, cancel := detach(ctx)
					defer cancel()
					cleanupCtx = ctx.WithContext(detached)
				}
				pctx = cleanupCtx
			}
		}

		LogPhaseStart(ctx.Observer, name)

		if err := phase.Provision(pctx); err != nil {
			LogPhaseFailed(ctx.Observer, name, err)
			errs = append(errs, fmt.Errorf("%s phase failed: %w", phase.Name(), err))
			if abortReason == nil && ctx.Config != nil && ctx.Config.FailurePolicy == config.FailurePolicyAbort {
				abortReason = ErrAborted
			}
			continue
		}

		LogPhaseComplete(ctx.Observer, name, time.Since(phaseStart))
	}

	if ctx.Err() != nil {
		err := interrupted(ctx)
		ctx.Report.Record(Step{
			Phase:  "run",
			Name:   StepInterrupted,
			Status: StatusFailed,
			Err:    err,
		})
		errs = append(errs, err)
	}

	ctx.Report.Finish()
	ctx.Observer.Printf("Lifecycle run finished in %v: %s",
		time.Since(start).Round(time.Millisecond), ctx.Report.Summary())
	return errors.Join(errs...)
}

// StepInterrupted is the step recorded when the run was cancelled.
const StepInterrupted = "interrupted"

func interrupted(ctx context.Context) error {
	return fmt.Errorf("run interrupted: %w", context.Cause(ctx))
}

// detach returns a context that ignores the cancellation of ctx but ends
// after the cleanup timeout.
func detach(ctx *Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx.Context)
	if ctx.Timeouts == nil || ctx.Timeouts.Cleanup <= 0 {
		return detached, func() {}
	}
	return context.WithTimeout(detached, ctx.Timeouts.Cleanup)
}
