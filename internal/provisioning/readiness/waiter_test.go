package readiness

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudprobe/cloudprobe/internal/config"
	"github.com/cloudprobe/cloudprobe/internal/platform/awscloud"
	"github.com/cloudprobe/cloudprobe/internal/provisioning"
	cptest "github.com/cloudprobe/cloudprobe/internal/testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaiterNames(t *testing.T) {
	tests := []struct {
		point       Point
		name        string
		runsOnAbort bool
	}{
		{AfterCreate, "wait after-create", false},
		{BeforeCleanup, "wait before-cleanup", false},
		{AfterCleanup, "wait after-cleanup", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.point), func(t *testing.T) {
			w := NewWaiter(tt.point)
			assert.Equal(t, tt.name, w.Name())
			assert.Equal(t, tt.runsOnAbort, w.RunsOnAbort())
		})
	}
}

func TestWaiter_SleepStrategy(t *testing.T) {
	tests := []struct {
		point Point
		want  time.Duration
	}{
		{AfterCreate, 60 * time.Second},
		{BeforeCleanup, 10 * time.Second},
		{AfterCleanup, 40 * time.Second},
	}
	for _, tt := range tests {
		t.Run(string(tt.point), func(t *testing.T) {
			cfg := cptest.NewConfigBuilder().WithWaitStrategy(config.WaitStrategySleep).Build()
			ctx, _ := cptest.NewLifecycleContext(t, cfg, &awscloud.MockClient{})
			ctx.Timeouts.AfterCreateDelay = 60 * time.Second
			ctx.Timeouts.BeforeCleanupDelay = 10 * time.Second
			ctx.Timeouts.AfterCleanupDelay = 40 * time.Second
			recorder := &cptest.SleepRecorder{}
			ctx.Sleep = recorder.Sleep

			require.NoError(t, NewWaiter(tt.point).Provision(ctx))
			assert.Equal(t, []time.Duration{tt.want}, recorder.Durations())
			assert.Equal(t, provisioning.StatusOK, cptest.StepStatus(ctx.Report, "sleep"))
		})
	}
}

func TestWaiter_SleepInterruptedIsWarning(t *testing.T) {
	cfg := cptest.NewConfigBuilder().WithWaitStrategy(config.WaitStrategySleep).Build()
	ctx, observer := cptest.NewLifecycleContext(t, cfg, &awscloud.MockClient{})
	ctx.Sleep = func(context.Context, time.Duration) error { return context.Canceled }

	require.NoError(t, NewWaiter(AfterCreate).Provision(ctx))
	assert.Equal(t, provisioning.StatusWarning, cptest.StepStatus(ctx.Report, "sleep"))
	assert.Len(t, observer.EventsOfType(provisioning.EventStepWarning), 1)
}

func createdResources(t *testing.T, cloud *cptest.FakeCloud, ctx *provisioning.Context) {
	t.Helper()
	id, err := cloud.CreateInstance(ctx, awscloud.InstanceSpec{ImageID: "ami-1", InstanceType: "t2.micro"})
	require.NoError(t, err)
	require.NoError(t, cloud.CreateBucket(ctx, "probe-bucket", nil))
	url, err := cloud.CreateQueue(ctx, awscloud.QueueSpec{Name: "q.fifo", FIFO: true})
	require.NoError(t, err)

	ctx.State.InstanceID = id
	ctx.State.BucketName = "probe-bucket"
	ctx.State.QueueURL = url
}

func TestWaiter_PollAfterCreate(t *testing.T) {
	cloud := cptest.NewFakeCloud("us-east-2")
	ctx, observer := cptest.NewLifecycleContext(t, nil, cloud)
	createdResources(t, cloud, ctx)

	require.NoError(t, NewWaiter(AfterCreate).Provision(ctx))

	for _, name := range []string{"await instance running", "await bucket reachable", "await queue listed"} {
		assert.Equal(t, provisioning.StatusOK, cptest.StepStatus(ctx.Report, name), name)
	}
	assert.Equal(t, awscloud.InstanceStateRunning, cloud.InstanceState(ctx.State.InstanceID))
	assert.Equal(t, 2, cloud.Calls(cptest.OpGetInstance))
	assert.NotEmpty(t, observer.EventsOfType(provisioning.EventWaiting))
}

func TestWaiter_PollExhaustedIsWarning(t *testing.T) {
	cloud := cptest.NewFakeCloud("us-east-2")
	cloud.InstanceStateLag = 100
	ctx, _ := cptest.NewLifecycleContext(t, nil, cloud)
	createdResources(t, cloud, ctx)

	require.NoError(t, NewWaiter(AfterCreate).Provision(ctx))

	assert.Equal(t, provisioning.StatusWarning, cptest.StepStatus(ctx.Report, "await instance running"))
	assert.Equal(t, ctx.Timeouts.ReadinessAttempts, cloud.Calls(cptest.OpGetInstance))
}

func TestWaiter_PollAccessDeniedFails(t *testing.T) {
	cloud := cptest.NewFakeCloud("us-east-2")
	ctx, _ := cptest.NewLifecycleContext(t, nil, cloud)
	createdResources(t, cloud, ctx)
	cloud.FailOn(cptest.OpBucketExists, cptest.APIError("AccessDenied", "denied"))

	err := NewWaiter(AfterCreate).Provision(ctx)
	require.Error(t, err)
	assert.True(t, awscloud.IsAccessDenied(err))
	assert.Equal(t, provisioning.StatusFailed, cptest.StepStatus(ctx.Report, "await bucket reachable"))
	assert.Equal(t, 1, cloud.Calls(cptest.OpBucketExists))
}

func TestWaiter_PollTransientErrorsRetry(t *testing.T) {
	calls := 0
	mock := &awscloud.MockClient{
		CountMessagesFunc: func(context.Context, string) (int, error) {
			calls++
			if calls == 1 {
				return 0, errors.New("connection reset")
			}
			return 0, nil
		},
	}
	ctx, observer := cptest.NewLifecycleContext(t, nil, mock)
	ctx.State.QueueURL = awscloud.MockQueueURL

	require.NoError(t, NewWaiter(BeforeCleanup).Provision(ctx))
	assert.Equal(t, 2, calls)
	assert.Equal(t, provisioning.StatusOK, cptest.StepStatus(ctx.Report, "await queue drained"))
	assert.Contains(t, observer.Messages()[len(observer.Messages())-1], "connection reset")
}

func TestWaiter_PollTerminatingInstanceIsFatal(t *testing.T) {
	mock := &awscloud.MockClient{
		GetInstanceFunc: func(_ context.Context, id string) (*awscloud.Instance, error) {
			return &awscloud.Instance{ID: id, State: awscloud.InstanceStateTerminated}, nil
		},
	}
	ctx, _ := cptest.NewLifecycleContext(t, nil, mock)
	ctx.State.InstanceID = "i-1"

	require.Error(t, NewWaiter(AfterCreate).Provision(ctx))
	assert.Equal(t, provisioning.StatusFailed, cptest.StepStatus(ctx.Report, "await instance running"))
}

func TestWaiter_PollSkipsMissingResources(t *testing.T) {
	for _, point := range []Point{AfterCreate, BeforeCleanup, AfterCleanup} {
		t.Run(string(point), func(t *testing.T) {
			ctx, _ := cptest.NewLifecycleContext(t, nil, &awscloud.MockClient{})

			require.NoError(t, NewWaiter(point).Provision(ctx))
			steps := ctx.Report.Steps()
			require.NotEmpty(t, steps)
			for _, s := range steps {
				assert.Equal(t, provisioning.StatusSkipped, s.Status, s.Name)
			}
		})
	}
}

func TestWaiter_PollAfterCleanup(t *testing.T) {
	cloud := cptest.NewFakeCloud("us-east-2")
	cloud.QueueListingLag = 1
	ctx, _ := cptest.NewLifecycleContext(t, nil, cloud)
	createdResources(t, cloud, ctx)

	require.NoError(t, cloud.TerminateInstance(ctx, ctx.State.InstanceID))
	require.NoError(t, cloud.DeleteBucket(ctx, ctx.State.BucketName))
	require.NoError(t, cloud.DeleteQueue(ctx, ctx.State.QueueURL))
	ctx.State.InstanceTerminated = true
	ctx.State.BucketDeleted = true
	ctx.State.QueueDeleted = true

	require.NoError(t, NewWaiter(AfterCleanup).Provision(ctx))

	for _, name := range []string{"await instance terminating", "await bucket deleted", "await queue delisted"} {
		assert.Equal(t, provisioning.StatusOK, cptest.StepStatus(ctx.Report, name), name)
	}
	assert.Equal(t, 2, cloud.Calls(cptest.OpListQueues))
}

func TestWaiter_Delay(t *testing.T) {
	timeouts := &config.Timeouts{AfterCreateDelay: 1, BeforeCleanupDelay: 2, AfterCleanupDelay: 3}
	assert.Equal(t, time.Duration(1), NewWaiter(AfterCreate).Delay(timeouts))
	assert.Equal(t, time.Duration(2), NewWaiter(BeforeCleanup).Delay(timeouts))
	assert.Equal(t, time.Duration(3), NewWaiter(AfterCleanup).Delay(timeouts))
}
