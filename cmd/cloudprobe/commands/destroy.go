package commands

import (
	"github.com/spf13/cobra"

	"github.com/cloudprobe/cloudprobe/cmd/cloudprobe/handlers"
	"github.com/cloudprobe/cloudprobe/internal/orchestration"
)

// Destroy returns the destroy command.
//
// The destroy command deletes resources left behind by an interrupted run
// and confirms the queue deletion.
func Destroy() *cobra.Command {
	var (
		configPath string
		target     orchestration.Target
	)

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Delete an instance, a bucket and a queue",
		Long: `Destroy deletes the named resources.

  --instance  terminates the instance
  --bucket    empties and deletes the bucket
  --queue     deletes the queue (URL or name) and waits until it is
              no longer listed

At least one resource must be given. Resources that are already gone
are reported as warnings.

Example:
  cloudprobe destroy --bucket cloudprobe-1b4e... --queue cloudprobe-queue.fifo

WARNING: This operation is irreversible.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), configPath, target)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVar(&target.InstanceID, "instance", "", "Instance ID to terminate")
	cmd.Flags().StringVar(&target.BucketName, "bucket", "", "Bucket name to delete")
	cmd.Flags().StringVar(&target.QueueURL, "queue", "", "Queue URL or name to delete")
	cmd.MarkFlagsOneRequired("instance", "bucket", "queue")

	return cmd
}
