package commands

import (
	"github.com/spf13/cobra"

	"github.com/cloudprobe/cloudprobe/cmd/cloudprobe/handlers"
)

// Init returns the command for interactively creating a configuration.
//
// Flags:
//
//	--output, -o: Path to output file (default "cloudprobe.yaml")
//	--advanced, -a: Show advanced configuration options
//	--full, -f: Output full YAML with all options (default: minimal output)
func Init() *cobra.Command {
	var (
		outputPath string
		advanced   bool
		fullOutput bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a configuration file",
		Long: `Interactively create a cloudprobe configuration file.

This command asks about:

  - Region and AWS profile
  - Instance type, image and key pair
  - Bucket prefix and queue name
  - Wait strategy and failure policy

Use --advanced for a custom endpoint (LocalStack), message settings
and extra resource tags.

Use --full to output the complete YAML with all configuration
options. By default, only values that differ from the defaults
are written.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath, advanced, fullOutput)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "cloudprobe.yaml", "Output file path")
	cmd.Flags().BoolVarP(&advanced, "advanced", "a", false, "Show advanced configuration options")
	cmd.Flags().BoolVarP(&fullOutput, "full", "f", false, "Output full YAML with all options")

	return cmd
}
