package readiness

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/cloudprobe/cloudprobe/internal/config"
	"github.com/cloudprobe/cloudprobe/internal/platform/awscloud"
	"github.com/cloudprobe/cloudprobe/internal/provisioning"
	"github.com/cloudprobe/cloudprobe/internal/util/retry"
)

// Point identifies a wait point of the lifecycle.
type Point string

// Wait points in lifecycle order.
const (
	AfterCreate   Point = "after-create"
	BeforeCleanup Point = "before-cleanup"
	AfterCleanup  Point = "after-cleanup"
)

// Waiter waits at one wait point.
type Waiter struct {
	point Point
}

// NewWaiter creates a waiter for point.
func NewWaiter(point Point) *Waiter {
	return &Waiter{point: point}
}

// Name implements provisioning.Phase.
func (w *Waiter) Name() string {
	return "wait " + string(w.point)
}

// RunsOnAbort reports whether the wait still happens after an abort. Only
// the wait that follows cleanup does.
func (w *Waiter) RunsOnAbort() bool {
	return w.point == AfterCleanup
}

// Provision waits according to the configured strategy.
func (w *Waiter) Provision(ctx *provisioning.Context) error {
	if ctx.Config.WaitStrategy == config.WaitStrategySleep {
		return w.sleep(ctx)
	}
	return w.poll(ctx)
}

// Delay returns the fixed delay of the waiter's point.
func (w *Waiter) Delay(t *config.Timeouts) time.Duration {
	switch w.point {
	case AfterCreate:
		return t.AfterCreateDelay
	case BeforeCleanup:
		return t.BeforeCleanupDelay
	default:
		return t.AfterCleanupDelay
	}
}

func (w *Waiter) sleep(ctx *provisioning.Context) error {
	delay := w.Delay(ctx.Timeouts)
	return ctx.Step(w.Name(), "sleep", delay.String(), func() error {
		provisioning.LogWaiting(ctx.Observer, w.Name(), fmt.Sprintf("Sleeping %s", delay))
		if err := ctx.Sleep(ctx, delay); err != nil {
			return provisioning.Warning(fmt.Errorf("wait interrupted: %w", err))
		}
		return nil
	})
}

// check is one readiness condition polled by a wait point.
type check struct {
	name     string
	resource string
	// skip is non-empty when the checked resource does not exist.
	skip string
	cond retry.Condition
}

func (w *Waiter) poll(ctx *provisioning.Context) error {
	var errs []error
	for _, c := range w.checks(ctx) {
		errs = append(errs, w.await(ctx, c))
	}
	return errors.Join(errs...)
}

func (w *Waiter) await(ctx *provisioning.Context, c check) error {
	phase := w.Name()
	return ctx.Step(phase, "await "+c.name, c.resource, func() error {
		if c.skip != "" {
			return provisioning.Skip("%s", c.skip)
		}

		attempts := ctx.Timeouts.ReadinessAttempts
		provisioning.LogWaiting(ctx.Observer, phase, fmt.Sprintf("Waiting for %s (%s)", c.name, c.resource))

		err := retry.Poll(ctx, func(pctx context.Context, attempt int) (bool, error) {
			ctx.Observer.Progress(phase, attempt, attempts)
			return c.cond(pctx, attempt)
		},
			retry.WithMaxAttempts(attempts),
			retry.WithInterval(ctx.Timeouts.ReadinessInterval),
			retry.WithNotify(func(attempt int, err error) {
				ctx.Observer.Printf("[%s] %s: attempt %d/%d failed: %v", phase, c.name, attempt, attempts, err)
			}),
		)
		switch {
		case err == nil:
			return nil
		case retry.IsFatal(err):
			return err
		case retry.IsExhausted(err):
			return provisioning.Warning(fmt.Errorf("%s not observed: %w", c.name, err))
		default:
			return provisioning.Warning(fmt.Errorf("wait interrupted: %w", err))
		}
	})
}

func (w *Waiter) checks(ctx *provisioning.Context) []check {
	s := ctx.State
	switch w.point {
	case AfterCreate:
		return []check{
			instanceCheck(ctx, "instance running", s.InstanceID == "", "no instance was created",
				func(inst *awscloud.Instance) (bool, error) {
					if inst == nil {
						return false, nil
					}
					if inst.Terminating() {
						return false, retry.Fatal(fmt.Errorf("instance %s is %s", inst.ID, inst.State))
					}
					return inst.State == awscloud.InstanceStateRunning, nil
				}),
			bucketCheck(ctx, "bucket reachable", s.BucketName == "", "no bucket was created", true),
			queueListedCheck(ctx, "queue listed", s.QueueURL == "", "no queue was created", true),
		}
	case BeforeCleanup:
		return []check{{
			name:     "queue drained",
			resource: s.QueueURL,
			skip:     skipIf(s.QueueURL == "", "no queue was created"),
			cond: func(pctx context.Context, _ int) (bool, error) {
				n, err := ctx.Cloud.CountMessages(pctx, s.QueueURL)
				if err != nil {
					return false, classify(err)
				}
				return n == 0, nil
			},
		}}
	default:
		return []check{
			instanceCheck(ctx, "instance terminating", !s.InstanceTerminated, "instance was not terminated",
				func(inst *awscloud.Instance) (bool, error) {
					return inst == nil || inst.Terminating(), nil
				}),
			bucketCheck(ctx, "bucket deleted", !s.BucketDeleted, "bucket was not deleted", false),
			queueListedCheck(ctx, "queue delisted", !s.QueueDeleted, "queue was not deleted", false),
		}
	}
}

func instanceCheck(ctx *provisioning.Context, name string, missing bool, reason string, done func(*awscloud.Instance) (bool, error)) check {
	id := ctx.State.InstanceID
	return check{
		name:     name,
		resource: id,
		skip:     skipIf(missing, reason),
		cond: func(pctx context.Context, _ int) (bool, error) {
			inst, err := ctx.Cloud.GetInstance(pctx, id)
			if err != nil {
				return false, classify(err)
			}
			return done(inst)
		},
	}
}

func bucketCheck(ctx *provisioning.Context, name string, missing bool, reason string, want bool) check {
	bucket := ctx.State.BucketName
	return check{
		name:     name,
		resource: bucket,
		skip:     skipIf(missing, reason),
		cond: func(pctx context.Context, _ int) (bool, error) {
			exists, err := ctx.Cloud.BucketExists(pctx, bucket)
			if err != nil {
				return false, classify(err)
			}
			return exists == want, nil
		},
	}
}

func queueListedCheck(ctx *provisioning.Context, name string, missing bool, reason string, want bool) check {
	url := ctx.State.QueueURL
	return check{
		name:     name,
		resource: url,
		skip:     skipIf(missing, reason),
		cond: func(pctx context.Context, _ int) (bool, error) {
			urls, err := ctx.Cloud.ListQueues(pctx)
			if err != nil {
				return false, classify(err)
			}
			return slices.Contains(urls, url) == want, nil
		},
	}
}

// classify stops polling on errors that another attempt cannot fix.
func classify(err error) error {
	if awscloud.IsAccessDenied(err) {
		return retry.Fatal(err)
	}
	return err
}

func skipIf(cond bool, reason string) string {
	if cond {
		return reason
	}
	return ""
}
