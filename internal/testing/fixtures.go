package testing

import (
	"context"
	"sync"
	"time"

	"github.com/cloudprobe/cloudprobe/internal/platform/awscloud"
)

// CloudFixture provides a pre-configured MockClient for common test scenarios.
type CloudFixture struct {
	mock *awscloud.MockClient
}

// NewCloudFixture creates a new cloud fixture.
func NewCloudFixture() *CloudFixture {
	return &CloudFixture{
		mock: &awscloud.MockClient{},
	}
}

// Mock returns the underlying MockClient for custom configuration.
func (f *CloudFixture) Mock() *awscloud.MockClient {
	return f.mock
}

// MessageRoundTrip configures the queue methods to behave like a queue
// holding at most one message: a sent message is counted and received until
// it is deleted. Returns the same mock for chaining.
func (f *CloudFixture) MessageRoundTrip() *awscloud.MockClient {
	var mu sync.Mutex
	var pending *awscloud.Message
	inFlight := false

	f.mock.SendMessageFunc = func(_ context.Context, _ string, msg awscloud.OutgoingMessage) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		pending = &awscloud.Message{
			ID:            awscloud.MockMessageID,
			Body:          msg.Body,
			Name:          msg.Name,
			HasName:       msg.Name != "",
			ReceiptHandle: "receipt-1",
		}
		inFlight = false
		return pending.ID, nil
	}
	f.mock.CountMessagesFunc = func(_ context.Context, _ string) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		if pending == nil || inFlight {
			return 0, nil
		}
		return 1, nil
	}
	f.mock.ReceiveMessageFunc = func(_ context.Context, _ string, _ time.Duration) (*awscloud.Message, error) {
		mu.Lock()
		defer mu.Unlock()
		if pending == nil || inFlight {
			return nil, nil
		}
		inFlight = true
		m := *pending
		return &m, nil
	}
	f.mock.DeleteMessageFunc = func(_ context.Context, _, _ string) error {
		mu.Lock()
		defer mu.Unlock()
		pending = nil
		inFlight = false
		return nil
	}
	return f.mock
}

// AllCallsFail makes every mutating and listing call return err.
// Returns the same mock for chaining.
func (f *CloudFixture) AllCallsFail(err error) *awscloud.MockClient {
	f.mock.CreateInstanceFunc = func(context.Context, awscloud.InstanceSpec) (string, error) { return "", err }
	f.mock.CreateBucketFunc = func(context.Context, string, map[string]string) error { return err }
	f.mock.CreateQueueFunc = func(context.Context, awscloud.QueueSpec) (string, error) { return "", err }
	f.mock.ListInstancesFunc = func(context.Context) ([]awscloud.Instance, error) { return nil, err }
	f.mock.ListBucketsFunc = func(context.Context) ([]string, error) { return nil, err }
	f.mock.ListQueuesFunc = func(context.Context) ([]string, error) { return nil, err }
	f.mock.CallerIdentityFunc = func(context.Context) (*awscloud.Identity, error) { return nil, err }
	return f.mock
}
