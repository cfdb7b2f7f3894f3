package handlers

import (
	"context"
	"fmt"

	"github.com/cloudprobe/cloudprobe/internal/config"
	"github.com/cloudprobe/cloudprobe/internal/orchestration"
	"github.com/cloudprobe/cloudprobe/internal/platform/awscloud"
	"github.com/cloudprobe/cloudprobe/internal/provisioning"
	"github.com/cloudprobe/cloudprobe/internal/ui/benchmarks"
	"github.com/cloudprobe/cloudprobe/internal/ui/tui"
)

// RunOptions holds the flags of the run command.
type RunOptions struct {
	ConfigPath    string
	WaitStrategy  string
	FailurePolicy string
	TUI           bool
	MetricsFile   string
	Debug         bool
}

// Factory function variables for run - can be replaced in tests.
var (
	// runLifecycleTUI runs the lifecycle under the Bubble Tea dashboard.
	runLifecycleTUI = tui.RunLifecycleTUI

	// orchestratorOptions adds options to every orchestrator (tests shorten waits).
	orchestratorOptions []orchestration.Option
)

// Run executes the full lifecycle and prints the step report.
//
// The report is printed even when the run fails or is interrupted. The
// returned error is non-nil when any step failed, which the CLI turns into
// a non-zero exit code.
func Run(ctx context.Context, opts RunOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if err := applyRunOverrides(cfg, opts); err != nil {
		return err
	}

	logger := newLogger(opts.Debug)
	timeouts := loadTimeouts()

	clientOpts := clientOptions(cfg, timeouts)
	var metrics *awscloud.Metrics
	if opts.MetricsFile != "" {
		metrics = awscloud.NewMetrics()
		clientOpts.Metrics = metrics
	}
	if opts.Debug {
		clientOpts.Logger = &logger
	}

	cloud, err := newCloudClient(ctx, clientOpts)
	if err != nil {
		return fmt.Errorf("failed to create AWS client: %w", err)
	}

	run := func(ctx context.Context, observer provisioning.Observer) (*provisioning.Report, error) {
		orchOpts := append([]orchestration.Option{orchestration.WithTimeouts(timeouts)}, orchestratorOptions...)
		return orchestration.NewOrchestrator(cloud, cfg, observer, orchOpts...).Run(ctx)
	}

	var report *provisioning.Report
	var runErr error
	if opts.TUI && isInteractiveTTY() {
		report, runErr = runLifecycleTUI(ctx, run, cfg.Region, benchmarks.PhaseOrder, phaseTimings(cfg, timeouts))
	} else {
		logger.Info().Str("region", cloud.Region()).Str("strategy", string(cfg.WaitStrategy)).
			Str("policy", string(cfg.FailurePolicy)).Msg("Starting lifecycle run")
		report, runErr = run(ctx, provisioning.NewConsoleObserver(logger))
	}

	if report != nil {
		fmt.Fprintln(stdout)
		fmt.Fprint(stdout, tui.RenderReport(report))
	}

	if opts.MetricsFile != "" {
		if err := metrics.WriteFile(opts.MetricsFile); err != nil {
			logger.Warn().Err(err).Str("path", opts.MetricsFile).Msg("Failed to write metrics")
		}
	}

	if runErr != nil {
		return fmt.Errorf("lifecycle run failed: %w", runErr)
	}
	return nil
}

// applyRunOverrides applies flag overrides and revalidates the config.
func applyRunOverrides(cfg *config.Config, opts RunOptions) error {
	if opts.WaitStrategy != "" {
		cfg.WaitStrategy = config.WaitStrategy(opts.WaitStrategy)
	}
	if opts.FailurePolicy != "" {
		cfg.FailurePolicy = config.FailurePolicy(opts.FailurePolicy)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// phaseTimings returns the ETA table for the configured wait strategy.
func phaseTimings(cfg *config.Config, timeouts *config.Timeouts) map[string]int {
	if cfg.WaitStrategy == config.WaitStrategySleep {
		return benchmarks.WithFixedDelays(timeouts.AfterCreateDelay, timeouts.BeforeCleanupDelay, timeouts.AfterCleanupDelay)
	}
	return benchmarks.DefaultTimings
}
