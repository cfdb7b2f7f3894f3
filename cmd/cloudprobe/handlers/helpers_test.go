package handlers

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/cloudprobe/cloudprobe/internal/config"
	"github.com/cloudprobe/cloudprobe/internal/orchestration"
	"github.com/cloudprobe/cloudprobe/internal/platform/awscloud"
	cptest "github.com/cloudprobe/cloudprobe/internal/testing"
)

// saveAndRestoreFactories saves and restores the shared factory functions.
func saveAndRestoreFactories(t *testing.T) {
	origNewCloudClient := newCloudClient
	origLoadConfig := loadConfig
	origLoadTimeouts := loadTimeouts
	origIsInteractiveTTY := isInteractiveTTY
	origStdout := stdout
	origLogOutput := logOutput
	origRunLifecycleTUI := runLifecycleTUI
	origOrchestratorOptions := orchestratorOptions

	t.Cleanup(func() {
		newCloudClient = origNewCloudClient
		loadConfig = origLoadConfig
		loadTimeouts = origLoadTimeouts
		isInteractiveTTY = origIsInteractiveTTY
		stdout = origStdout
		logOutput = origLogOutput
		runLifecycleTUI = origRunLifecycleTUI
		orchestratorOptions = origOrchestratorOptions
	})
}

// useFakeCloud wires every handler to an in-memory cloud with test
// timeouts and returns the fake and the captured stdout.
func useFakeCloud(t *testing.T) (*cptest.FakeCloud, *bytes.Buffer) {
	saveAndRestoreFactories(t)

	cloud := cptest.NewFakeCloud(config.DefaultRegion)
	out := &bytes.Buffer{}

	newCloudClient = func(_ context.Context, _ awscloud.Options) (awscloud.CloudManager, error) {
		return cloud, nil
	}
	loadTimeouts = config.TestTimeouts
	isInteractiveTTY = func() bool { return false }
	stdout = out
	logOutput = io.Discard
	orchestratorOptions = []orchestration.Option{orchestration.WithSleep((&cptest.SleepRecorder{}).Sleep)}

	return cloud, out
}
