package commands

import (
	"github.com/spf13/cobra"

	"github.com/cloudprobe/cloudprobe/cmd/cloudprobe/handlers"
)

// Doctor returns the command for preflight checks.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: built-in defaults)
func Doctor() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and credentials before a run",
		Long: `Diagnose your cloudprobe setup.

Checks:
  - Configuration file is valid
  - Credentials resolve to a caller identity
  - Region and endpoint in use

Example:
  cloudprobe doctor -c cloudprobe.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Doctor(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")

	return cmd
}
