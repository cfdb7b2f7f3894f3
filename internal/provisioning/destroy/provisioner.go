package destroy

import (
	"errors"
	"fmt"

	"github.com/cloudprobe/cloudprobe/internal/platform/awscloud"
	"github.com/cloudprobe/cloudprobe/internal/provisioning"
	"github.com/cloudprobe/cloudprobe/internal/util/tags"
)

const phase = "destroy"

// Step names.
const (
	StepTerminateInstance = "terminate instance"
	StepDeleteBucket      = "delete bucket"
	StepDeleteQueue       = "delete queue"
)

// Provisioner deletes the run's resources.
type Provisioner struct{}

// NewProvisioner creates a new destroy provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements provisioning.Phase.
func (p *Provisioner) Name() string {
	return phase
}

// RunsOnAbort implements provisioning.CleanupPhase.
func (p *Provisioner) RunsOnAbort() bool {
	return true
}

// Provision deletes the instance, the bucket and the queue.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	return errors.Join(
		p.terminateInstance(ctx),
		p.deleteBucket(ctx),
		p.deleteQueue(ctx),
	)
}

func (p *Provisioner) terminateInstance(ctx *provisioning.Context) error {
	id := ctx.State.InstanceID
	return ctx.Step(phase, StepTerminateInstance, id, func() error {
		if id == "" {
			return provisioning.Skip("no instance")
		}
		provisioning.LogResourceDeleting(ctx.Observer, phase, tags.ResourceInstance, id)

		err := ctx.Cloud.TerminateInstance(ctx, id)
		if awscloud.IsNotFound(err) {
			ctx.State.InstanceTerminated = true
			return provisioning.Warning(fmt.Errorf("instance %s already gone: %w", id, err))
		}
		if err != nil {
			return err
		}

		ctx.State.InstanceTerminated = true
		ctx.Observer.Printf("[%s] Instance %s is terminating", phase, id)
		return nil
	})
}

func (p *Provisioner) deleteBucket(ctx *provisioning.Context) error {
	bucket := ctx.State.BucketName
	return ctx.Step(phase, StepDeleteBucket, bucket, func() error {
		if bucket == "" {
			return provisioning.Skip("no bucket")
		}
		provisioning.LogResourceDeleting(ctx.Observer, phase, tags.ResourceBucket, bucket)

		n, err := ctx.Cloud.EmptyBucket(ctx, bucket)
		if awscloud.IsNotFound(err) {
			ctx.State.BucketDeleted = true
			return provisioning.Warning(fmt.Errorf("bucket %s already gone: %w", bucket, err))
		}
		if err != nil {
			return err
		}
		if n > 0 {
			ctx.Observer.Printf("[%s] Deleted %d object(s) from bucket %s", phase, n, bucket)
		}

		if err := ctx.Cloud.DeleteBucket(ctx, bucket); err != nil {
			return err
		}

		ctx.State.BucketDeleted = true
		provisioning.LogResourceDeleted(ctx.Observer, phase, tags.ResourceBucket, bucket)
		return nil
	})
}

func (p *Provisioner) deleteQueue(ctx *provisioning.Context) error {
	url := ctx.State.QueueURL
	return ctx.Step(phase, StepDeleteQueue, url, func() error {
		if url == "" {
			return provisioning.Skip("no queue")
		}
		provisioning.LogResourceDeleting(ctx.Observer, phase, tags.ResourceQueue, url)

		err := ctx.Cloud.DeleteQueue(ctx, url)
		if awscloud.IsNotFound(err) {
			ctx.State.QueueDeleted = true
			return provisioning.Warning(fmt.Errorf("queue %s already gone: %w", url, err))
		}
		if err != nil {
			return err
		}

		ctx.State.QueueDeleted = true
		provisioning.LogResourceDeleted(ctx.Observer, phase, tags.ResourceQueue, url)
		return nil
	})
}
