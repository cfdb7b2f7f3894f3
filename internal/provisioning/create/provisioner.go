package create

import (
	"errors"

	"github.com/cloudprobe/cloudprobe/internal/platform/awscloud"
	"github.com/cloudprobe/cloudprobe/internal/provisioning"
	"github.com/cloudprobe/cloudprobe/internal/util/naming"
	"github.com/cloudprobe/cloudprobe/internal/util/tags"
)

const phase = "create"

// Provisioner creates the run's resources.
type Provisioner struct{}

// NewProvisioner creates a new create provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements provisioning.Phase.
func (p *Provisioner) Name() string {
	return phase
}

// Provision creates the instance, the bucket and the queue.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	return errors.Join(
		p.createInstance(ctx),
		p.createBucket(ctx),
		p.createQueue(ctx),
	)
}

func (p *Provisioner) createInstance(ctx *provisioning.Context) error {
	cfg := ctx.Config.Instance
	return ctx.Step(phase, "create instance", cfg.ImageID, func() error {
		provisioning.LogResourceCreating(ctx.Observer, phase, tags.ResourceInstance, cfg.ImageID)

		id, err := ctx.Cloud.CreateInstance(ctx, awscloud.InstanceSpec{
			ImageID:      cfg.ImageID,
			InstanceType: cfg.Type,
			KeyName:      cfg.KeyName,
			Tags:         ctx.Tags(tags.ResourceInstance, cfg.Name),
		})
		if err != nil {
			return err
		}

		ctx.State.InstanceID = id
		provisioning.LogResourceCreated(ctx.Observer, phase, tags.ResourceInstance, cfg.ImageID, id)
		return nil
	})
}

func (p *Provisioner) createBucket(ctx *provisioning.Context) error {
	name := naming.Bucket(ctx.Config.Bucket.Prefix)
	return ctx.Step(phase, "create bucket", name, func() error {
		provisioning.LogResourceCreating(ctx.Observer, phase, tags.ResourceBucket, name)

		err := ctx.Cloud.CreateBucket(ctx, name, ctx.Tags(tags.ResourceBucket, ""))
		if errors.Is(err, awscloud.ErrTagging) {
			// The bucket exists; it must still be cleaned up.
			ctx.State.BucketName = name
			return provisioning.Warning(err)
		}
		if err != nil {
			return err
		}

		ctx.State.BucketName = name
		provisioning.LogResourceCreated(ctx.Observer, phase, tags.ResourceBucket, name, name)
		return nil
	})
}

func (p *Provisioner) createQueue(ctx *provisioning.Context) error {
	name := naming.Queue(ctx.Config.Queue.Name)
	return ctx.Step(phase, "create queue", name, func() error {
		provisioning.LogResourceCreating(ctx.Observer, phase, tags.ResourceQueue, name)

		url, err := ctx.Cloud.CreateQueue(ctx, awscloud.QueueSpec{
			Name:                      name,
			FIFO:                      true,
			ContentBasedDeduplication: true,
			Tags:                      ctx.Tags(tags.ResourceQueue, ""),
		})
		if err != nil {
			if awscloud.IsQueueDeletedRecently(err) {
				ctx.Observer.Printf("[%s] Queue %s was deleted less than 60 seconds ago; retry later", phase, name)
			}
			return err
		}

		ctx.State.QueueURL = url
		provisioning.LogResourceCreated(ctx.Observer, phase, tags.ResourceQueue, name, url)
		return nil
	})
}
