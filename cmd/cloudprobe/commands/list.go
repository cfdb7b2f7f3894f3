package commands

import (
	"github.com/spf13/cobra"

	"github.com/cloudprobe/cloudprobe/cmd/cloudprobe/handlers"
)

// List returns the command that lists instances, buckets and queues.
func List() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List instances, buckets and queues",
		Long: `List the instances, buckets and queues visible to the configured
credentials in the configured region.

Example:
  cloudprobe list -c cloudprobe.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.List(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")

	return cmd
}
