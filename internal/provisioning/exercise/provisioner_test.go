package exercise

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudprobe/cloudprobe/internal/platform/awscloud"
	"github.com/cloudprobe/cloudprobe/internal/provisioning"
	cptest "github.com/cloudprobe/cloudprobe/internal/testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// provisioned returns a context whose state holds a bucket and a queue
// created in a fresh fake cloud.
func provisioned(t *testing.T, cloud *cptest.FakeCloud) (*provisioning.Context, *cptest.MemoryObserver) {
	t.Helper()
	cfg := cptest.NewConfigBuilder().WithObject("probe.txt", "hello").Build()
	ctx, observer := cptest.NewLifecycleContext(t, cfg, cloud)

	require.NoError(t, cloud.CreateBucket(ctx, "probe-bucket", nil))
	url, err := cloud.CreateQueue(ctx, awscloud.QueueSpec{Name: "q.fifo", FIFO: true, ContentBasedDeduplication: true})
	require.NoError(t, err)
	ctx.State.BucketName = "probe-bucket"
	ctx.State.QueueURL = url
	return ctx, observer
}

func TestProvisionerName(t *testing.T) {
	assert.Equal(t, "exercise", NewProvisioner().Name())
}

func TestProvision_RoundTrip(t *testing.T) {
	cloud := cptest.NewFakeCloud("us-east-2")
	ctx, observer := provisioned(t, cloud)

	require.NoError(t, NewProvisioner().Provision(ctx))

	data, ok := cloud.Object("probe-bucket", "probe.txt")
	require.True(t, ok)
	assert.Equal(t, "hello", string(data))
	assert.True(t, ctx.State.ObjectUploaded)

	assert.NotEmpty(t, ctx.State.SentMessageID)
	assert.Equal(t, 1, ctx.State.InitialDepth)
	assert.Equal(t, 0, ctx.State.FinalDepth)
	require.NotNil(t, ctx.State.Received)
	assert.Equal(t, "This is a test message", ctx.State.Received.Body)
	assert.Equal(t, "test message", ctx.State.Received.Name)

	assert.Equal(t, 6, ctx.Report.Count(provisioning.StatusOK))
	assert.Contains(t, observer.Messages(), "[exercise] Received message name: test message")
	assert.Contains(t, observer.Messages(), "[exercise] Number of messages in the queue: 1")
}

func TestProvision_MissingNameIsWarning(t *testing.T) {
	cloud := cptest.NewFakeCloud("us-east-2")
	cloud.DropMessageNames = true
	ctx, observer := provisioned(t, cloud)

	require.NoError(t, NewProvisioner().Provision(ctx))

	assert.Equal(t, provisioning.StatusWarning, cptest.StepStatus(ctx.Report, StepReceive))
	assert.Equal(t, provisioning.StatusOK, cptest.StepStatus(ctx.Report, StepDeleteMessage))
	assert.Contains(t, observer.Messages(), "[exercise] Received message name: No name provided")
}

func TestProvision_MismatchFails(t *testing.T) {
	tests := []struct {
		name string
		msg  awscloud.Message
		want string
	}{
		{
			name: "body",
			msg:  awscloud.Message{ID: "m", Body: "other", Name: "test message", HasName: true, ReceiptHandle: "r"},
			want: `received body "other"`,
		},
		{
			name: "name",
			msg:  awscloud.Message{ID: "m", Body: "This is a test message", Name: "other", HasName: true, ReceiptHandle: "r"},
			want: `received name "other"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := cptest.NewCloudFixture().MessageRoundTrip()
			mock.ReceiveMessageFunc = func(context.Context, string, time.Duration) (*awscloud.Message, error) {
				msg := tt.msg
				return &msg, nil
			}
			ctx, _ := cptest.NewLifecycleContext(t, nil, mock)
			ctx.State.QueueURL = awscloud.MockQueueURL

			err := NewProvisioner().Provision(ctx)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, provisioning.StatusFailed, cptest.StepStatus(ctx.Report, StepReceive))
			// The message is still acknowledged.
			assert.Equal(t, provisioning.StatusOK, cptest.StepStatus(ctx.Report, StepDeleteMessage))
		})
	}
}

func TestProvision_NoMessageReceived(t *testing.T) {
	mock := &awscloud.MockClient{
		CountMessagesFunc: func(context.Context, string) (int, error) { return 0, nil },
	}
	ctx, _ := cptest.NewLifecycleContext(t, nil, mock)
	ctx.State.QueueURL = awscloud.MockQueueURL

	err := NewProvisioner().Provision(ctx)
	require.ErrorIs(t, err, ErrNoMessage)
	assert.Equal(t, provisioning.StatusWarning, cptest.StepStatus(ctx.Report, StepCountBefore))
	assert.Equal(t, provisioning.StatusSkipped, cptest.StepStatus(ctx.Report, StepDeleteMessage))
	assert.Equal(t, provisioning.StatusOK, cptest.StepStatus(ctx.Report, StepCountAfter))
}

func TestProvision_SkipsWithoutResources(t *testing.T) {
	ctx, _ := cptest.NewLifecycleContext(t, nil, &awscloud.MockClient{})

	require.NoError(t, NewProvisioner().Provision(ctx))
	assert.Equal(t, 6, ctx.Report.Count(provisioning.StatusSkipped))
	assert.Equal(t, -1, ctx.State.InitialDepth)
	assert.Equal(t, -1, ctx.State.FinalDepth)
}

func TestProvision_SendFailureSkipsReceive(t *testing.T) {
	cloud := cptest.NewFakeCloud("us-east-2")
	cloud.FailOn(cptest.OpSendMessage, errors.New("throttled"))
	ctx, _ := provisioned(t, cloud)

	require.Error(t, NewProvisioner().Provision(ctx))

	assert.Equal(t, provisioning.StatusOK, cptest.StepStatus(ctx.Report, StepUpload))
	assert.Equal(t, provisioning.StatusFailed, cptest.StepStatus(ctx.Report, StepSend))
	assert.Equal(t, provisioning.StatusOK, cptest.StepStatus(ctx.Report, StepCountBefore))
	assert.Equal(t, provisioning.StatusSkipped, cptest.StepStatus(ctx.Report, StepReceive))
	assert.Equal(t, provisioning.StatusSkipped, cptest.StepStatus(ctx.Report, StepDeleteMessage))
	assert.Zero(t, cloud.Calls(cptest.OpReceiveMessage))
}

func TestProvision_ReceiveUsesConfiguredWait(t *testing.T) {
	var gotWait time.Duration
	mock := cptest.NewCloudFixture().MessageRoundTrip()
	inner := mock.ReceiveMessageFunc
	mock.ReceiveMessageFunc = func(ctx context.Context, url string, wait time.Duration) (*awscloud.Message, error) {
		gotWait = wait
		return inner(ctx, url, wait)
	}
	cfg := cptest.NewConfigBuilder().WithReceiveWait(5 * time.Second).Build()
	ctx, _ := cptest.NewLifecycleContext(t, cfg, mock)
	ctx.State.QueueURL = awscloud.MockQueueURL

	require.NoError(t, NewProvisioner().Provision(ctx))
	assert.Equal(t, 5*time.Second, gotWait)
}
