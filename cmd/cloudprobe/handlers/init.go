package handlers

import (
	"context"
	"fmt"

	"github.com/cloudprobe/cloudprobe/internal/config"
	"github.com/cloudprobe/cloudprobe/internal/config/wizard"
)

// Factory function variables for init - can be replaced in tests.
var (
	wizardFileExists       = wizard.FileExists
	wizardConfirmOverwrite = wizard.ConfirmOverwrite
	wizardRunWizard        = wizard.RunWizard
	wizardBuildConfig      = wizard.BuildConfig
	wizardWriteConfig      = wizard.WriteConfig
)

// Init runs the configuration wizard and writes the result to a file.
func Init(ctx context.Context, outputPath string, advanced, fullOutput bool) error {
	if wizardFileExists(outputPath) {
		ok, err := wizardConfirmOverwrite(outputPath)
		if err != nil {
			return fmt.Errorf("failed to confirm overwrite: %w", err)
		}
		if !ok {
			fmt.Fprintln(stdout, "Aborted.")
			return nil
		}
	}

	printWelcome(advanced, fullOutput)

	result, err := wizardRunWizard(ctx, advanced)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	cfg, err := wizardBuildConfig(result)
	if err != nil {
		return fmt.Errorf("invalid answers: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := wizardWriteConfig(cfg, outputPath, fullOutput); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)
	return nil
}

// printWelcome prints the welcome message.
func printWelcome(advanced, fullOutput bool) {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "cloudprobe - EC2, S3 and SQS lifecycle check")
	fmt.Fprintln(stdout, "============================================")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "This wizard will help you create a configuration file.")
	if advanced {
		fmt.Fprintln(stdout, "Running in advanced mode.")
	}
	if fullOutput {
		fmt.Fprintln(stdout, "Full output mode: every option is written.")
	} else {
		fmt.Fprintln(stdout, "Minimal output mode: only non-default values are written.")
	}
	fmt.Fprintln(stdout)
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Configuration saved!")
	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "  File: %s\n", outputPath)
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Run Summary")
	fmt.Fprintln(stdout, "-----------")
	fmt.Fprintf(stdout, "  Region:         %s\n", cfg.Region)
	if cfg.Profile != "" {
		fmt.Fprintf(stdout, "  Profile:        %s\n", cfg.Profile)
	}
	if cfg.EndpointURL != "" {
		fmt.Fprintf(stdout, "  Endpoint:       %s\n", cfg.EndpointURL)
	}
	fmt.Fprintf(stdout, "  Instance:       %s (%s)\n", cfg.Instance.Type, cfg.Instance.ImageID)
	fmt.Fprintf(stdout, "  Bucket prefix:  %s\n", cfg.Bucket.Prefix)
	fmt.Fprintf(stdout, "  Queue:          %s\n", cfg.Queue.Name)
	fmt.Fprintf(stdout, "  Wait strategy:  %s\n", cfg.WaitStrategy)
	fmt.Fprintf(stdout, "  Failure policy: %s\n", cfg.FailurePolicy)
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Next Steps")
	fmt.Fprintln(stdout, "----------")
	fmt.Fprintln(stdout, "  1. Check credentials and configuration:")
	fmt.Fprintf(stdout, "     cloudprobe doctor -c %s\n", outputPath)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "  2. Run the lifecycle:")
	fmt.Fprintf(stdout, "     cloudprobe run -c %s\n", outputPath)
	fmt.Fprintln(stdout)
}
