package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudprobe/cloudprobe/internal/config"
	"github.com/cloudprobe/cloudprobe/internal/platform/awscloud"
	"github.com/cloudprobe/cloudprobe/internal/ui/tui"
)

// ErrDoctorFailed is returned when at least one check failed.
var ErrDoctorFailed = errors.New("preflight checks failed")

// Doctor handles the doctor command.
//
// It validates the configuration, resolves the caller identity through the
// configured credential source and reports region and endpoint.
func Doctor(ctx context.Context, configPath string) error {
	checks := doctorChecks(ctx, configPath)
	fmt.Fprint(stdout, tui.RenderDoctor("cloudprobe doctor", checks))

	for _, c := range checks {
		if c.Status == tui.CheckFailed {
			return ErrDoctorFailed
		}
	}
	return nil
}

func doctorChecks(ctx context.Context, configPath string) []tui.Check {
	source := configPath
	if source == "" {
		source = "built-in defaults"
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return []tui.Check{{Name: "config", Status: tui.CheckFailed, Detail: err.Error()}}
	}
	checks := []tui.Check{{Name: "config", Status: tui.CheckPassed, Detail: source}}
	checks = append(checks, regionCheck(cfg), credentialSourceCheck(cfg))

	timeouts := loadTimeouts()
	cloud, err := newCloudClient(ctx, clientOptions(cfg, timeouts))
	if err != nil {
		return append(checks, tui.Check{Name: "credentials", Status: tui.CheckFailed, Detail: err.Error()})
	}
	return append(checks, identityCheck(ctx, cloud))
}

func regionCheck(cfg *config.Config) tui.Check {
	if cfg.EndpointURL != "" {
		return tui.Check{
			Name:   "endpoint",
			Status: tui.CheckWarning,
			Detail: fmt.Sprintf("%s via custom endpoint %s", cfg.Region, cfg.EndpointURL),
		}
	}
	return tui.Check{Name: "region", Status: tui.CheckPassed, Detail: cfg.Region}
}

func credentialSourceCheck(cfg *config.Config) tui.Check {
	if cfg.Profile != "" {
		return tui.Check{Name: "credential source", Status: tui.CheckPassed, Detail: "profile " + cfg.Profile}
	}
	return tui.Check{Name: "credential source", Status: tui.CheckPassed, Detail: "default chain"}
}

func identityCheck(ctx context.Context, ids awscloud.IdentityResolver) tui.Check {
	id, err := ids.CallerIdentity(ctx)
	if err != nil {
		return tui.Check{Name: "identity", Status: tui.CheckFailed, Detail: err.Error()}
	}
	return tui.Check{Name: "identity", Status: tui.CheckPassed, Detail: fmt.Sprintf("%s (account %s)", id.ARN, id.Account)}
}
