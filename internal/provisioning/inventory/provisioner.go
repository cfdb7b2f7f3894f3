package inventory

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/cloudprobe/cloudprobe/internal/platform/awscloud"
	"github.com/cloudprobe/cloudprobe/internal/provisioning"
	"github.com/cloudprobe/cloudprobe/internal/util/tags"
)

// Provisioner lists all resource types and stores the listings in State.
type Provisioner struct {
	name   string
	verify bool
}

// NewProvisioner creates the listing that follows resource creation.
func NewProvisioner() *Provisioner {
	return &Provisioner{name: "list"}
}

// NewVerifier creates the final listing. Each listing additionally warns
// when a resource of this run is still present.
func NewVerifier() *Provisioner {
	return &Provisioner{name: "verify", verify: true}
}

// Name implements provisioning.Phase.
func (p *Provisioner) Name() string {
	return p.name
}

// RunsOnAbort reports whether the listing still runs after an abort. Only
// the verifying listing does.
func (p *Provisioner) RunsOnAbort() bool {
	return p.verify
}

// Provision lists instances, buckets and queues.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	return errors.Join(
		p.listInstances(ctx),
		p.listBuckets(ctx),
		p.listQueues(ctx),
	)
}

func (p *Provisioner) listInstances(ctx *provisioning.Context) error {
	return ctx.Step(p.name, "list instances", tags.ResourceInstance, func() error {
		instances, err := ctx.Cloud.ListInstances(ctx)
		if err != nil {
			return err
		}
		ctx.State.Instances = instances

		ctx.Observer.Printf("[%s] %d instance(s)", p.name, len(instances))
		for _, inst := range instances {
			ctx.Observer.Printf("[%s]   %s  %-13s  %s", p.name, inst.ID, inst.State, inst.Type)
		}

		if !p.verify || ctx.State.InstanceID == "" {
			return nil
		}
		for _, inst := range instances {
			if inst.ID == ctx.State.InstanceID && !inst.Terminating() {
				return provisioning.Warning(fmt.Errorf("instance %s is still %s", inst.ID, inst.State))
			}
		}
		return nil
	})
}

func (p *Provisioner) listBuckets(ctx *provisioning.Context) error {
	return ctx.Step(p.name, "list buckets", tags.ResourceBucket, func() error {
		buckets, err := ctx.Cloud.ListBuckets(ctx)
		if err != nil {
			return err
		}
		ctx.State.Buckets = buckets

		ctx.Observer.Printf("[%s] %d bucket(s)", p.name, len(buckets))
		for _, b := range buckets {
			ctx.Observer.Printf("[%s]   %s", p.name, b)
		}

		if p.verify && ctx.State.BucketName != "" && slices.Contains(buckets, ctx.State.BucketName) {
			return provisioning.Warning(fmt.Errorf("bucket %s still exists", ctx.State.BucketName))
		}
		return nil
	})
}

func (p *Provisioner) listQueues(ctx *provisioning.Context) error {
	return ctx.Step(p.name, "list queues", tags.ResourceQueue, func() error {
		urls, err := ctx.Cloud.ListQueues(ctx)
		if err != nil {
			return err
		}
		ctx.State.Queues = urls

		ctx.Observer.Printf("[%s] %d queue(s)", p.name, len(urls))
		for _, url := range urls {
			ctx.Observer.Printf("[%s]   %s", p.name, url)
		}

		if p.verify && ctx.State.QueueURL != "" && slices.Contains(urls, ctx.State.QueueURL) {
			return provisioning.Warning(fmt.Errorf("queue %s is still listed", ctx.State.QueueURL))
		}
		return nil
	})
}

// Listing is a snapshot of the account's resources.
type Listing struct {
	Instances []awscloud.Instance
	Buckets   []string
	Queues    []string
}

// List returns all resources without recording steps. A failed listing
// does not prevent the others; all errors are returned joined.
func List(ctx context.Context, cloud awscloud.CloudManager) (*Listing, error) {
	var (
		l    Listing
		errs []error
		err  error
	)
	if l.Instances, err = cloud.ListInstances(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to list instances: %w", err))
	}
	if l.Buckets, err = cloud.ListBuckets(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to list buckets: %w", err))
	}
	if l.Queues, err = cloud.ListQueues(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to list queues: %w", err))
	}
	return &l, errors.Join(errs...)
}
