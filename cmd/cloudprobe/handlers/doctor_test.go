package handlers

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudprobe/cloudprobe/internal/config"
	"github.com/cloudprobe/cloudprobe/internal/platform/awscloud"
	cptest "github.com/cloudprobe/cloudprobe/internal/testing"
	"github.com/cloudprobe/cloudprobe/internal/ui/tui"
)

func TestDoctor_AllPassed(t *testing.T) {
	_, out := useFakeCloud(t)

	require.NoError(t, Doctor(cptest.TestContext(t), ""))
	assert.Contains(t, out.String(), "built-in defaults")
	assert.Contains(t, out.String(), cptest.FakeAccount)
	assert.Contains(t, out.String(), config.DefaultRegion)
}

func TestDoctor_IdentityFailure(t *testing.T) {
	cloud, out := useFakeCloud(t)
	cloud.FailOn(cptest.OpCallerIdentity, errors.New("no valid credential sources"))

	err := Doctor(cptest.TestContext(t), "")
	require.ErrorIs(t, err, ErrDoctorFailed)
	assert.Contains(t, out.String(), "no valid credential sources")
}

func TestDoctor_InvalidConfig(t *testing.T) {
	cloud, out := useFakeCloud(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("wait_strategy: spin\n"), 0600))

	err := Doctor(cptest.TestContext(t), path)
	require.ErrorIs(t, err, ErrDoctorFailed)
	assert.Contains(t, out.String(), "invalid wait_strategy")
	assert.Zero(t, cloud.Calls(cptest.OpCallerIdentity), "no API calls with an invalid config")
}

func TestDoctor_ClientError(t *testing.T) {
	_, out := useFakeCloud(t)
	newCloudClient = func(context.Context, awscloud.Options) (awscloud.CloudManager, error) {
		return nil, errors.New("failed to load AWS config: profile not found")
	}

	err := Doctor(cptest.TestContext(t), "")
	require.ErrorIs(t, err, ErrDoctorFailed)
	assert.Contains(t, out.String(), "profile not found")
}

func TestRegionCheck(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, tui.CheckPassed, regionCheck(cfg).Status)

	cfg.EndpointURL = "http://localhost:4566"
	check := regionCheck(cfg)
	assert.Equal(t, tui.CheckWarning, check.Status)
	assert.Contains(t, check.Detail, "localhost:4566")
}

func TestCredentialSourceCheck(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, "default chain", credentialSourceCheck(cfg).Detail)

	cfg.Profile = "sandbox"
	assert.Equal(t, "profile sandbox", credentialSourceCheck(cfg).Detail)
}

func TestIdentityCheck(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus tui.CheckStatus
	}{
		{name: "resolved", wantStatus: tui.CheckPassed},
		{name: "access denied", err: cptest.APIError("AccessDenied", "denied"), wantStatus: tui.CheckFailed},
		{name: "expired token", err: cptest.APIError("ExpiredToken", "expired"), wantStatus: tui.CheckFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &awscloud.MockClient{
				CallerIdentityFunc: func(context.Context) (*awscloud.Identity, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return &awscloud.Identity{Account: "123456789012", ARN: "arn:aws:iam::123456789012:user/probe"}, nil
				},
			}
			assert.Equal(t, tt.wantStatus, identityCheck(context.Background(), mock).Status)
		})
	}
}
