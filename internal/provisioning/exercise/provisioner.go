package exercise

import (
	"errors"
	"fmt"

	"github.com/cloudprobe/cloudprobe/internal/config"
	"github.com/cloudprobe/cloudprobe/internal/platform/awscloud"
	"github.com/cloudprobe/cloudprobe/internal/provisioning"
)

const phase = "exercise"

// Step names.
const (
	StepUpload        = "upload object"
	StepSend          = "send message"
	StepCountBefore   = "count messages (before receive)"
	StepReceive       = "receive message"
	StepDeleteMessage = "delete message"
	StepCountAfter    = "count messages (after delete)"
)

// ErrNoMessage is returned when the queue delivered nothing.
var ErrNoMessage = errors.New("no message received")

// Provisioner exercises the bucket and the queue.
type Provisioner struct{}

// NewProvisioner creates a new exercise provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements provisioning.Phase.
func (p *Provisioner) Name() string {
	return phase
}

// Provision uploads the object and runs the message round trip. Every step
// runs even if an earlier one failed, as long as its input exists.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	return errors.Join(
		p.upload(ctx),
		p.send(ctx),
		p.countBefore(ctx),
		p.receive(ctx),
		p.deleteMessage(ctx),
		p.countAfter(ctx),
	)
}

func (p *Provisioner) upload(ctx *provisioning.Context) error {
	cfg := ctx.Config.Exercise
	bucket := ctx.State.BucketName
	return ctx.Step(phase, StepUpload, bucket+"/"+cfg.ObjectKey, func() error {
		if bucket == "" {
			return provisioning.Skip("no bucket")
		}
		if err := ctx.Cloud.PutObject(ctx, bucket, cfg.ObjectKey, []byte(cfg.ObjectContent)); err != nil {
			return err
		}
		ctx.State.ObjectUploaded = true
		ctx.Observer.Printf("[%s] File %s uploaded to bucket %s", phase, cfg.ObjectKey, bucket)
		return nil
	})
}

func (p *Provisioner) send(ctx *provisioning.Context) error {
	cfg := ctx.Config.Exercise
	url := ctx.State.QueueURL
	return ctx.Step(phase, StepSend, url, func() error {
		if url == "" {
			return provisioning.Skip("no queue")
		}
		id, err := ctx.Cloud.SendMessage(ctx, url, awscloud.OutgoingMessage{
			Body:    cfg.MessageBody,
			Name:    cfg.MessageName,
			GroupID: ctx.Config.Queue.MessageGroupID,
		})
		if err != nil {
			return err
		}
		ctx.State.SentMessageID = id
		ctx.Observer.Printf("[%s] Message sent: %s with name %q", phase, id, cfg.MessageName)
		return nil
	})
}

func (p *Provisioner) countBefore(ctx *provisioning.Context) error {
	return p.count(ctx, StepCountBefore, &ctx.State.InitialDepth, func(n int) error {
		if ctx.State.SentMessageID != "" && n != 1 {
			return fmt.Errorf("expected 1 message after send, queue reports %d", n)
		}
		return nil
	})
}

func (p *Provisioner) countAfter(ctx *provisioning.Context) error {
	return p.count(ctx, StepCountAfter, &ctx.State.FinalDepth, func(n int) error {
		if ctx.State.Received != nil && n != 0 {
			return fmt.Errorf("expected an empty queue after delete, queue reports %d", n)
		}
		return nil
	})
}

// count stores the queue depth in dst. A depth that differs from expect is
// a warning: the count is approximate.
func (p *Provisioner) count(ctx *provisioning.Context, name string, dst *int, expect func(int) error) error {
	url := ctx.State.QueueURL
	return ctx.Step(phase, name, url, func() error {
		if url == "" {
			return provisioning.Skip("no queue")
		}
		n, err := ctx.Cloud.CountMessages(ctx, url)
		if err != nil {
			return err
		}
		*dst = n
		ctx.Observer.Printf("[%s] Number of messages in the queue: %d", phase, n)
		return provisioning.Warning(expect(n))
	})
}

func (p *Provisioner) receive(ctx *provisioning.Context) error {
	cfg := ctx.Config.Exercise
	url := ctx.State.QueueURL
	return ctx.Step(phase, StepReceive, url, func() error {
		if url == "" {
			return provisioning.Skip("no queue")
		}
		if ctx.State.SentMessageID == "" {
			return provisioning.Skip("no message was sent")
		}

		msg, err := ctx.Cloud.ReceiveMessage(ctx, url, ctx.Config.Queue.ReceiveWait)
		if err != nil {
			return err
		}
		if msg == nil {
			return ErrNoMessage
		}
		ctx.State.Received = msg

		name := msg.Name
		if !msg.HasName {
			name = config.MissingMessageName
		}
		ctx.Observer.Printf("[%s] Received message name: %s", phase, name)
		ctx.Observer.Printf("[%s] Received message body: %s", phase, msg.Body)

		if msg.Body != cfg.MessageBody {
			return fmt.Errorf("received body %q, sent %q", msg.Body, cfg.MessageBody)
		}
		if !msg.HasName {
			return provisioning.Warning(fmt.Errorf("message %s has no %s attribute", msg.ID, awscloud.MessageNameAttribute))
		}
		if msg.Name != cfg.MessageName {
			return fmt.Errorf("received name %q, sent %q", msg.Name, cfg.MessageName)
		}
		return nil
	})
}

func (p *Provisioner) deleteMessage(ctx *provisioning.Context) error {
	url := ctx.State.QueueURL
	return ctx.Step(phase, StepDeleteMessage, url, func() error {
		msg := ctx.State.Received
		if msg == nil {
			return provisioning.Skip("no message was received")
		}
		if err := ctx.Cloud.DeleteMessage(ctx, url, msg.ReceiptHandle); err != nil {
			return err
		}
		ctx.Observer.Printf("[%s] Message %s deleted", phase, msg.ID)
		return nil
	})
}
