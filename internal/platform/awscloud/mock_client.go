package awscloud

import (
	"context"
	"time"
)

// Defaults returned by MockClient when no func is set.
const (
	MockInstanceID = "i-0123456789abcdef0"
	MockQueueURL   = "https://sqs.us-east-2.amazonaws.com/000000000000/mock-queue.fifo"
	MockMessageID  = "mock-message-id"
	MockAccount    = "000000000000"
	MockRegion     = "us-east-2"
)

// MockClient is a mock implementation of CloudManager.
type MockClient struct {
	// Compute
	CreateInstanceFunc    func(ctx context.Context, spec InstanceSpec) (string, error)
	ListInstancesFunc     func(ctx context.Context) ([]Instance, error)
	GetInstanceFunc       func(ctx context.Context, id string) (*Instance, error)
	TerminateInstanceFunc func(ctx context.Context, id string) error

	// Storage
	CreateBucketFunc func(ctx context.Context, name string, tags map[string]string) error
	BucketExistsFunc func(ctx context.Context, name string) (bool, error)
	ListBucketsFunc  func(ctx context.Context) ([]string, error)
	PutObjectFunc    func(ctx context.Context, bucket, key string, data []byte) error
	EmptyBucketFunc  func(ctx context.Context, bucket string) (int, error)
	DeleteBucketFunc func(ctx context.Context, bucket string) error

	// Queue
	CreateQueueFunc    func(ctx context.Context, spec QueueSpec) (string, error)
	ListQueuesFunc     func(ctx context.Context) ([]string, error)
	SendMessageFunc    func(ctx context.Context, queueURL string, msg OutgoingMessage) (string, error)
	ReceiveMessageFunc func(ctx context.Context, queueURL string, wait time.Duration) (*Message, error)
	DeleteMessageFunc  func(ctx context.Context, queueURL, receiptHandle string) error
	CountMessagesFunc  func(ctx context.Context, queueURL string) (int, error)
	DeleteQueueFunc    func(ctx context.Context, queueURL string) error

	// Identity
	CallerIdentityFunc func(ctx context.Context) (*Identity, error)

	RegionName string
}

// Ensure interface compliance
var _ CloudManager = (*MockClient)(nil)

// CreateInstance mocks instance creation.
func (m *MockClient) CreateInstance(ctx context.Context, spec InstanceSpec) (string, error) {
	if m.CreateInstanceFunc != nil {
		return m.CreateInstanceFunc(ctx, spec)
	}
	return MockInstanceID, nil
}

// ListInstances mocks instance listing.
func (m *MockClient) ListInstances(ctx context.Context) ([]Instance, error) {
	if m.ListInstancesFunc != nil {
		return m.ListInstancesFunc(ctx)
	}
	return nil, nil
}

// GetInstance mocks instance lookup. The default reports a running instance.
func (m *MockClient) GetInstance(ctx context.Context, id string) (*Instance, error) {
	if m.GetInstanceFunc != nil {
		return m.GetInstanceFunc(ctx, id)
	}
	return &Instance{ID: id, State: InstanceStateRunning}, nil
}

// TerminateInstance mocks instance termination.
func (m *MockClient) TerminateInstance(ctx context.Context, id string) error {
	if m.TerminateInstanceFunc != nil {
		return m.TerminateInstanceFunc(ctx, id)
	}
	return nil
}

// CreateBucket mocks bucket creation.
func (m *MockClient) CreateBucket(ctx context.Context, name string, tags map[string]string) error {
	if m.CreateBucketFunc != nil {
		return m.CreateBucketFunc(ctx, name, tags)
	}
	return nil
}

// BucketExists mocks the bucket existence check.
func (m *MockClient) BucketExists(ctx context.Context, name string) (bool, error) {
	if m.BucketExistsFunc != nil {
		return m.BucketExistsFunc(ctx, name)
	}
	return true, nil
}

// ListBuckets mocks bucket listing.
func (m *MockClient) ListBuckets(ctx context.Context) ([]string, error) {
	if m.ListBucketsFunc != nil {
		return m.ListBucketsFunc(ctx)
	}
	return nil, nil
}

// PutObject mocks object upload.
func (m *MockClient) PutObject(ctx context.Context, bucket, key string, data []byte) error {
	if m.PutObjectFunc != nil {
		return m.PutObjectFunc(ctx, bucket, key, data)
	}
	return nil
}

// EmptyBucket mocks emptying a bucket.
func (m *MockClient) EmptyBucket(ctx context.Context, bucket string) (int, error) {
	if m.EmptyBucketFunc != nil {
		return m.EmptyBucketFunc(ctx, bucket)
	}
	return 0, nil
}

// DeleteBucket mocks bucket deletion.
func (m *MockClient) DeleteBucket(ctx context.Context, bucket string) error {
	if m.DeleteBucketFunc != nil {
		return m.DeleteBucketFunc(ctx, bucket)
	}
	return nil
}

// CreateQueue mocks queue creation.
func (m *MockClient) CreateQueue(ctx context.Context, spec QueueSpec) (string, error) {
	if m.CreateQueueFunc != nil {
		return m.CreateQueueFunc(ctx, spec)
	}
	return MockQueueURL, nil
}

// ListQueues mocks queue listing.
func (m *MockClient) ListQueues(ctx context.Context) ([]string, error) {
	if m.ListQueuesFunc != nil {
		return m.ListQueuesFunc(ctx)
	}
	return nil, nil
}

// SendMessage mocks sending a message.
func (m *MockClient) SendMessage(ctx context.Context, queueURL string, msg OutgoingMessage) (string, error) {
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, queueURL, msg)
	}
	return MockMessageID, nil
}

// ReceiveMessage mocks receiving a message. The default finds none.
func (m *MockClient) ReceiveMessage(ctx context.Context, queueURL string, wait time.Duration) (*Message, error) {
	if m.ReceiveMessageFunc != nil {
		return m.ReceiveMessageFunc(ctx, queueURL, wait)
	}
	return nil, nil
}

// DeleteMessage mocks message acknowledgement.
func (m *MockClient) DeleteMessage(ctx context.Context, queueURL, receiptHandle string) error {
	if m.DeleteMessageFunc != nil {
		return m.DeleteMessageFunc(ctx, queueURL, receiptHandle)
	}
	return nil
}

// CountMessages mocks the queue depth query.
func (m *MockClient) CountMessages(ctx context.Context, queueURL string) (int, error) {
	if m.CountMessagesFunc != nil {
		return m.CountMessagesFunc(ctx, queueURL)
	}
	return 0, nil
}

// DeleteQueue mocks queue deletion.
func (m *MockClient) DeleteQueue(ctx context.Context, queueURL string) error {
	if m.DeleteQueueFunc != nil {
		return m.DeleteQueueFunc(ctx, queueURL)
	}
	return nil
}

// CallerIdentity mocks identity resolution.
func (m *MockClient) CallerIdentity(ctx context.Context) (*Identity, error) {
	if m.CallerIdentityFunc != nil {
		return m.CallerIdentityFunc(ctx)
	}
	return &Identity{
		Account: MockAccount,
		ARN:     "arn:aws:iam::" + MockAccount + ":user/mock",
		UserID:  "AIDAMOCK",
	}, nil
}

// Region returns RegionName, or MockRegion when unset.
func (m *MockClient) Region() string {
	if m.RegionName != "" {
		return m.RegionName
	}
	return MockRegion
}
