package handlers

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudprobe/cloudprobe/internal/config"
	"github.com/cloudprobe/cloudprobe/internal/orchestration"
	"github.com/cloudprobe/cloudprobe/internal/platform/awscloud"
	"github.com/cloudprobe/cloudprobe/internal/provisioning"
	cptest "github.com/cloudprobe/cloudprobe/internal/testing"
	"github.com/cloudprobe/cloudprobe/internal/ui/benchmarks"
	"github.com/cloudprobe/cloudprobe/internal/ui/tui"
)

func TestRun_Success(t *testing.T) {
	cloud, out := useFakeCloud(t)

	err := Run(cptest.TestContext(t), RunOptions{})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "create instance")
	assert.Contains(t, out.String(), "0 failed")
	assert.Equal(t, 1, cloud.Calls(cptest.OpCreateInstance))
	assert.Equal(t, 1, cloud.Calls(cptest.OpDeleteQueue))
}

func TestRun_FailureReturnsErrorAndPrintsReport(t *testing.T) {
	cloud, out := useFakeCloud(t)
	cloud.FailOn(cptest.OpCreateBucket, cptest.APIError("AccessDenied", "denied"))

	err := Run(cptest.TestContext(t), RunOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lifecycle run failed")
	assert.Contains(t, out.String(), "create bucket")
	assert.Contains(t, out.String(), "1 failed")

	// Cleanup still ran for the resources that were created.
	assert.Equal(t, 1, cloud.Calls(cptest.OpTerminateInstance))
	assert.Equal(t, 1, cloud.Calls(cptest.OpDeleteQueue))
}

func TestRun_InterruptReturnsCanceled(t *testing.T) {
	cloud, out := useFakeCloud(t)
	ctx, cancel := context.WithCancel(cptest.TestContext(t))
	defer cancel()

	orchestratorOptions = []orchestration.Option{orchestration.WithSleep(func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	})}

	err := Run(ctx, RunOptions{WaitStrategy: "sleep"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "run interrupted")

	assert.Zero(t, cloud.Calls(cptest.OpSendMessage))
	assert.Contains(t, out.String(), "1 failed")

	// Cleanup ran for the created resources.
	assert.Equal(t, 1, cloud.Calls(cptest.OpTerminateInstance))
	assert.Equal(t, 1, cloud.Calls(cptest.OpDeleteQueue))
}

func TestRun_FlagOverrides(t *testing.T) {
	tests := []struct {
		name    string
		opts    RunOptions
		wantErr string
	}{
		{name: "sleep strategy", opts: RunOptions{WaitStrategy: "sleep"}},
		{name: "abort policy", opts: RunOptions{FailurePolicy: "abort"}},
		{name: "invalid strategy", opts: RunOptions{WaitStrategy: "spin"}, wantErr: "invalid wait_strategy"},
		{name: "invalid policy", opts: RunOptions{FailurePolicy: "retry"}, wantErr: "invalid failure_policy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cloud, _ := useFakeCloud(t)

			err := Run(cptest.TestContext(t), tt.opts)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Zero(t, cloud.Calls(cptest.OpCreateInstance), "no resources on invalid flags")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRun_ConfigLoadError(t *testing.T) {
	useFakeCloud(t)

	err := Run(cptest.TestContext(t), RunOptions{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestRun_ClientError(t *testing.T) {
	useFakeCloud(t)
	newCloudClient = func(context.Context, awscloud.Options) (awscloud.CloudManager, error) {
		return nil, errors.New("no credentials")
	}

	err := Run(cptest.TestContext(t), RunOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create AWS client")
}

func TestRun_ClientOptions(t *testing.T) {
	cloud, _ := useFakeCloud(t)
	var got awscloud.Options
	newCloudClient = func(_ context.Context, opts awscloud.Options) (awscloud.CloudManager, error) {
		got = opts
		return cloud, nil
	}

	metricsPath := filepath.Join(t.TempDir(), "metrics.prom")
	err := Run(cptest.TestContext(t), RunOptions{Debug: true, MetricsFile: metricsPath})
	require.NoError(t, err)

	assert.Equal(t, config.DefaultRegion, got.Region)
	assert.NotNil(t, got.Metrics)
	assert.NotNil(t, got.Logger)
	assert.Equal(t, config.TestTimeouts().APICall, got.CallTimeout)

	// The fake does not record API calls, but the file is still written.
	_, err = os.Stat(metricsPath)
	assert.NoError(t, err)
}

func TestRun_TUIOnlyOnTerminal(t *testing.T) {
	tests := []struct {
		name    string
		tty     bool
		wantTUI bool
	}{
		{name: "terminal", tty: true, wantTUI: true},
		{name: "pipe", tty: false, wantTUI: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useFakeCloud(t)
			isInteractiveTTY = func() bool { return tt.tty }

			var usedTUI bool
			var gotPhases []string
			runLifecycleTUI = func(ctx context.Context, run tui.RunFunc, _ string, phases []string, _ map[string]int) (*provisioning.Report, error) {
				usedTUI = true
				gotPhases = phases
				return run(ctx, cptest.NewMemoryObserver())
			}

			require.NoError(t, Run(cptest.TestContext(t), RunOptions{TUI: true}))
			assert.Equal(t, tt.wantTUI, usedTUI)
			if tt.wantTUI {
				assert.Equal(t, benchmarks.PhaseOrder, gotPhases)
			}
		})
	}
}

func TestPhaseTimings(t *testing.T) {
	timeouts := &config.Timeouts{
		AfterCreateDelay:   60 * time.Second,
		BeforeCleanupDelay: 10 * time.Second,
		AfterCleanupDelay:  40 * time.Second,
	}

	pollCfg := config.Default()
	pollCfg.WaitStrategy = config.WaitStrategyPoll
	poll := phaseTimings(pollCfg, timeouts)
	assert.Equal(t, benchmarks.DefaultTimings, poll)

	cfg := config.Default()
	cfg.WaitStrategy = config.WaitStrategySleep
	sleep := phaseTimings(cfg, timeouts)
	assert.Equal(t, 60, sleep["wait after-create"])
	assert.Equal(t, 10, sleep["wait before-cleanup"])
	assert.Equal(t, 40, sleep["wait after-cleanup"])
}
