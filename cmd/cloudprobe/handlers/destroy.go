package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudprobe/cloudprobe/internal/orchestration"
	"github.com/cloudprobe/cloudprobe/internal/platform/awscloud"
	"github.com/cloudprobe/cloudprobe/internal/provisioning"
	"github.com/cloudprobe/cloudprobe/internal/ui/tui"
	"github.com/cloudprobe/cloudprobe/internal/util/naming"
)

// ErrNothingToDestroy is returned when no resource was named.
var ErrNothingToDestroy = errors.New("nothing to destroy: pass --instance, --bucket or --queue")

// Destroy handles the destroy command.
//
// It deletes the named resources, confirms the queue deletion and prints
// the step report. A queue may be given by URL or by name.
func Destroy(ctx context.Context, configPath string, target orchestration.Target) error {
	if target.Empty() {
		return ErrNothingToDestroy
	}
	if target.BucketName != "" && !naming.ValidBucketName(target.BucketName) {
		return fmt.Errorf("invalid bucket name %q", target.BucketName)
	}

	cfg, timeouts, cloud, err := connect(ctx, configPath)
	if err != nil {
		return err
	}

	if target.QueueURL != "" {
		url, err := resolveQueueURL(ctx, cloud, target.QueueURL)
		if err != nil {
			return err
		}
		target.QueueURL = url
	}

	logger := newLogger(false)
	logger.Info().Str("instance", target.InstanceID).Str("bucket", target.BucketName).
		Str("queue", target.QueueURL).Msg("Destroying resources")

	orch := orchestration.NewOrchestrator(cloud, cfg, provisioning.NewConsoleObserver(logger),
		append([]orchestration.Option{orchestration.WithTimeouts(timeouts)}, orchestratorOptions...)...)
	report, err := orch.Destroy(ctx, target)

	if report != nil {
		fmt.Fprintln(stdout)
		fmt.Fprint(stdout, tui.RenderReport(report))
	}
	if err != nil {
		return fmt.Errorf("destroy failed: %w", err)
	}
	return nil
}

// resolveQueueURL returns ref unchanged when it is a URL, otherwise the URL
// of the listed queue with that name.
func resolveQueueURL(ctx context.Context, cloud awscloud.QueueManager, ref string) (string, error) {
	if strings.Contains(ref, "://") {
		return ref, nil
	}

	urls, err := cloud.ListQueues(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list queues: %w", err)
	}
	for _, url := range urls {
		if naming.QueueNameFromURL(url) == ref {
			return url, nil
		}
	}
	return "", fmt.Errorf("queue %q not found", ref)
}
