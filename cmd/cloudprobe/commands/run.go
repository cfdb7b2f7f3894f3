package commands

import (
	"github.com/spf13/cobra"

	"github.com/cloudprobe/cloudprobe/cmd/cloudprobe/handlers"
)

// Run returns the command that executes the full resource lifecycle.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: built-in defaults)
//	--wait-strategy: sleep (default) or poll (overrides the config file)
//	--failure-policy: continue or abort (overrides the config file)
//	--tui: Show a live dashboard when stdout is a terminal
//	--metrics-file: Write API call metrics in the Prometheus text format
//	--debug: Log SDK requests, responses and retries
func Run() *cobra.Command {
	var opts handlers.RunOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Create, exercise and delete an instance, a bucket and a queue",
		Long: `Run the full resource lifecycle in one region.

Phases, in order:
  1. create     - launch an instance, create a bucket and a FIFO queue
  2. wait       - wait until the new resources are visible
  3. list       - list instances, buckets and queues
  4. exercise   - upload an object, send, count, receive and delete a message
  5. wait       - wait until the queue is drained
  6. destroy    - terminate the instance, delete the bucket and the queue
  7. confirm    - poll until the queue disappears from the listing
  8. wait       - wait until the deletions are visible
  9. verify     - list again and check nothing from this run is left

Waits sleep for fixed delays (60s, 10s, 40s) unless --wait-strategy poll
checks readiness instead.

Cleanup phases always run, even after a failure or Ctrl+C. A second Ctrl+C
stops immediately. The command exits non-zero when any step failed or the
run was interrupted.

Examples:
  # Run with defaults (us-east-2, credentials from the default chain)
  cloudprobe run

  # Run with a config file and a live dashboard
  cloudprobe run -c cloudprobe.yaml --tui

  # Poll for readiness instead of sleeping
  cloudprobe run --wait-strategy poll

  # Stop creating and exercising after the first failure
  cloudprobe run --failure-policy abort`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVar(&opts.WaitStrategy, "wait-strategy", "", "Wait strategy: sleep (fixed 60s/10s/40s delays, default) or poll (bounded readiness checks)")
	cmd.Flags().StringVar(&opts.FailurePolicy, "failure-policy", "", "Failure policy: continue or abort")
	cmd.Flags().BoolVar(&opts.TUI, "tui", false, "Show a live dashboard (terminal only)")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write API call metrics to this file")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "Enable debug and SDK request logging")

	return cmd
}
