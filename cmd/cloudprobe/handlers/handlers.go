// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/cloudprobe/cloudprobe/internal/config"
	"github.com/cloudprobe/cloudprobe/internal/platform/awscloud"
	"github.com/cloudprobe/cloudprobe/internal/provisioning"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// newCloudClient creates the cloud client from the single credential source.
	newCloudClient = func(ctx context.Context, opts awscloud.Options) (awscloud.CloudManager, error) {
		return awscloud.NewRealClient(ctx, opts)
	}

	// loadConfig loads the config file, or the defaults for an empty path.
	loadConfig = config.Load

	// loadTimeouts loads wait and poll settings from the environment.
	loadTimeouts = config.LoadTimeouts

	// isInteractiveTTY reports whether stdout is a terminal.
	isInteractiveTTY = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	// stdout receives rendered tables and summaries.
	stdout io.Writer = os.Stdout

	// logOutput receives structured log lines.
	logOutput io.Writer = os.Stderr
)

// clientOptions builds the client options shared by every command.
func clientOptions(cfg *config.Config, timeouts *config.Timeouts) awscloud.Options {
	return awscloud.Options{
		Region:      cfg.Region,
		Profile:     cfg.Profile,
		EndpointURL: cfg.EndpointURL,
		CallTimeout: timeouts.APICall,
	}
}

// newLogger returns the console logger, at debug level when requested.
func newLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return provisioning.NewLogger(logOutput, level)
}

// connect loads the config and creates the cloud client.
func connect(ctx context.Context, configPath string) (*config.Config, *config.Timeouts, awscloud.CloudManager, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	timeouts := loadTimeouts()
	cloud, err := newCloudClient(ctx, clientOptions(cfg, timeouts))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create AWS client: %w", err)
	}
	return cfg, timeouts, cloud, nil
}
