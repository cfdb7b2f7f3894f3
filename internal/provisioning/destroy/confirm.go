package destroy

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/cloudprobe/cloudprobe/internal/provisioning"
	"github.com/cloudprobe/cloudprobe/internal/util/retry"
)

// StepConfirmQueueDeletion is the step name of the confirmation poll.
const StepConfirmQueueDeletion = "confirm queue deletion"

// ErrQueueStillListed is returned when a deleted queue is still listed
// after every attempt.
var ErrQueueStillListed = errors.New("queue still listed after deletion attempts")

// QueueLister lists queue URLs.
type QueueLister interface {
	ListQueues(ctx context.Context) ([]string, error)
}

// PollUntilQueueAbsent lists queues until url is no longer among them. It
// lists at most maxAttempts times with a fixed interval in between. A
// listing error counts as an attempt and is logged. When the queue is still
// listed after the last attempt it returns ErrQueueStillListed.
func PollUntilQueueAbsent(ctx context.Context, queues QueueLister, url string, maxAttempts int, interval time.Duration, log provisioning.Logger) error {
	log.Printf("[%s] Waiting for queue to be fully deleted...", confirmPhase)

	err := retry.Poll(ctx, func(ctx context.Context, _ int) (bool, error) {
		urls, err := queues.ListQueues(ctx)
		if err != nil {
			return false, err
		}
		return !slices.Contains(urls, url), nil
	},
		retry.WithMaxAttempts(maxAttempts),
		retry.WithInterval(interval),
		retry.WithNotify(func(attempt int, err error) {
			log.Printf("[%s] Error checking queues (attempt %d/%d): %v", confirmPhase, attempt, maxAttempts, err)
		}),
	)
	switch {
	case err == nil:
		log.Printf("[%s] Queue deletion confirmed", confirmPhase)
		return nil
	case retry.IsExhausted(err):
		log.Printf("[%s] Queue still listed after %d attempts", confirmPhase, maxAttempts)
		return fmt.Errorf("%w: %s: %w", ErrQueueStillListed, url, err)
	default:
		return err
	}
}

const confirmPhase = "confirm"

// Confirmer confirms that the deleted queue has left the listing.
type Confirmer struct{}

// NewConfirmer creates the queue deletion confirmation phase.
func NewConfirmer() *Confirmer {
	return &Confirmer{}
}

// Name implements provisioning.Phase.
func (c *Confirmer) Name() string {
	return confirmPhase
}

// RunsOnAbort implements provisioning.CleanupPhase.
func (c *Confirmer) RunsOnAbort() bool {
	return true
}

// Provision polls until the queue is absent. A queue that stays listed is a
// warning, never a failure.
func (c *Confirmer) Provision(ctx *provisioning.Context) error {
	url := ctx.State.QueueURL
	return ctx.Step(confirmPhase, StepConfirmQueueDeletion, url, func() error {
		if !ctx.State.QueueDeleted {
			return provisioning.Skip("queue was not deleted")
		}
		err := PollUntilQueueAbsent(ctx, ctx.Cloud, url,
			ctx.Timeouts.QueueDeletionAttempts, ctx.Timeouts.QueueDeletionInterval, ctx.Observer)
		if err != nil {
			return provisioning.Warning(err)
		}
		ctx.State.QueueDeletionConfirmed = true
		return nil
	})
}
