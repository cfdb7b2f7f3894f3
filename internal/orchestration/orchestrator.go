package orchestration

import (
	"context"

	"github.com/cloudprobe/cloudprobe/internal/config"
	"github.com/cloudprobe/cloudprobe/internal/platform/awscloud"
	"github.com/cloudprobe/cloudprobe/internal/provisioning"
	"github.com/cloudprobe/cloudprobe/internal/provisioning/create"
	"github.com/cloudprobe/cloudprobe/internal/provisioning/destroy"
	"github.com/cloudprobe/cloudprobe/internal/provisioning/exercise"
	"github.com/cloudprobe/cloudprobe/internal/provisioning/inventory"
	"github.com/cloudprobe/cloudprobe/internal/provisioning/readiness"
)

// Orchestrator runs the lifecycle phases against one cloud.
type Orchestrator struct {
	cloud    awscloud.CloudManager
	config   *config.Config
	observer provisioning.Observer
	timeouts *config.Timeouts
	sleep    provisioning.SleepFunc
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTimeouts replaces the timeouts loaded from the environment.
func WithTimeouts(t *config.Timeouts) Option {
	return func(o *Orchestrator) {
		o.timeouts = t
	}
}

// WithSleep replaces the fixed-delay implementation.
func WithSleep(fn provisioning.SleepFunc) Option {
	return func(o *Orchestrator) {
		o.sleep = fn
	}
}

// NewOrchestrator creates a new orchestrator.
func NewOrchestrator(
	cloud awscloud.CloudManager,
	cfg *config.Config,
	observer provisioning.Observer,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		cloud:    cloud,
		config:   cfg,
		observer: observer,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Lifecycle returns the phases of a full run in execution order.
func Lifecycle() []provisioning.Phase {
	return []provisioning.Phase{
		create.NewProvisioner(),
		readiness.NewWaiter(readiness.AfterCreate),
		inventory.NewProvisioner(),
		exercise.NewProvisioner(),
		readiness.NewWaiter(readiness.BeforeCleanup),
		destroy.NewProvisioner(),
		destroy.NewConfirmer(),
		readiness.NewWaiter(readiness.AfterCleanup),
		inventory.NewVerifier(),
	}
}

// Run executes the full lifecycle. The report is always returned; the
// error joins every failed phase.
func (o *Orchestrator) Run(ctx context.Context) (*provisioning.Report, error) {
	pCtx := o.newContext(ctx)
	err := provisioning.RunPhases(pCtx, Lifecycle())
	return pCtx.Report, err
}

// Target names existing resources to delete.
type Target struct {
	InstanceID string
	BucketName string
	QueueURL   string
}

// Empty reports whether the target names no resource.
func (t Target) Empty() bool {
	return t.InstanceID == "" && t.BucketName == "" && t.QueueURL == ""
}

// Destroy deletes the target's resources and confirms the queue deletion.
func (o *Orchestrator) Destroy(ctx context.Context, target Target) (*provisioning.Report, error) {
	pCtx := o.newContext(ctx)
	pCtx.State.InstanceID = target.InstanceID
	pCtx.State.BucketName = target.BucketName
	pCtx.State.QueueURL = target.QueueURL

	err := provisioning.RunPhases(pCtx, []provisioning.Phase{
		destroy.NewProvisioner(),
		destroy.NewConfirmer(),
	})
	return pCtx.Report, err
}

func (o *Orchestrator) newContext(ctx context.Context) *provisioning.Context {
	pCtx := provisioning.NewContext(ctx, o.config, o.cloud, o.observer)
	if o.timeouts != nil {
		pCtx.Timeouts = o.timeouts
	}
	if o.sleep != nil {
		pCtx.Sleep = o.sleep
	}
	return pCtx
}
