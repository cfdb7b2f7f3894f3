package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudprobe/cloudprobe/internal/platform/awscloud"
	cptest "github.com/cloudprobe/cloudprobe/internal/testing"
)

func TestList(t *testing.T) {
	cloud, out := useFakeCloud(t)
	ctx := cptest.TestContext(t)

	_, err := cloud.CreateInstance(ctx, awscloud.InstanceSpec{ImageID: "ami-1", InstanceType: "t2.micro"})
	require.NoError(t, err)
	require.NoError(t, cloud.CreateBucket(ctx, "cloudprobe-listed", nil))
	_, err = cloud.CreateQueue(ctx, awscloud.QueueSpec{Name: "listed.fifo", FIFO: true})
	require.NoError(t, err)

	require.NoError(t, List(ctx, ""))

	assert.Contains(t, out.String(), "Instances (1)")
	assert.Contains(t, out.String(), "cloudprobe-listed")
	assert.Contains(t, out.String(), "listed.fifo")
}

func TestList_PartialFailure(t *testing.T) {
	cloud, out := useFakeCloud(t)
	ctx := cptest.TestContext(t)
	require.NoError(t, cloud.CreateBucket(ctx, "still-shown", nil))
	cloud.FailOn(cptest.OpListQueues, cptest.APIError("AccessDenied", "denied"))

	err := List(ctx, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list queues")
	assert.Contains(t, out.String(), "still-shown", "successful listings are still printed")
}
