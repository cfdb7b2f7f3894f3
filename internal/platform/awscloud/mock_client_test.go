package awscloud

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMockClient_InterfaceCompliance verifies MockClient implements CloudManager.
func TestMockClient_InterfaceCompliance(_ *testing.T) {
	var _ CloudManager = (*MockClient)(nil)
}

func TestMockClient_Defaults(t *testing.T) {
	m := &MockClient{}
	ctx := context.Background()

	id, err := m.CreateInstance(ctx, InstanceSpec{})
	require.NoError(t, err)
	assert.Equal(t, MockInstanceID, id)

	inst, err := m.GetInstance(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, InstanceStateRunning, inst.State)

	url, err := m.CreateQueue(ctx, QueueSpec{Name: "q.fifo"})
	require.NoError(t, err)
	assert.Equal(t, MockQueueURL, url)

	msg, err := m.ReceiveMessage(ctx, url, time.Second)
	require.NoError(t, err)
	assert.Nil(t, msg)

	ident, err := m.CallerIdentity(ctx)
	require.NoError(t, err)
	assert.Equal(t, MockAccount, ident.Account)

	assert.Equal(t, MockRegion, m.Region())
	m.RegionName = "eu-west-1"
	assert.Equal(t, "eu-west-1", m.Region())
}

func TestMockClient_CustomFunc(t *testing.T) {
	expectedErr := errors.New("custom error")
	m := &MockClient{
		CreateBucketFunc: func(_ context.Context, name string, _ map[string]string) error {
			if name != "probe-bucket" {
				t.Errorf("expected name 'probe-bucket', got %q", name)
			}
			return expectedErr
		},
	}

	err := m.CreateBucket(context.Background(), "probe-bucket", nil)
	assert.ErrorIs(t, err, expectedErr)
}
