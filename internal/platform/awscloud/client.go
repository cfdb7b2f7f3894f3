package awscloud

import (
	"context"
	"time"
)

// Instance states as reported by EC2.
const (
	InstanceStatePending      = "pending"
	InstanceStateRunning      = "running"
	InstanceStateShuttingDown = "shutting-down"
	InstanceStateTerminated   = "terminated"
	InstanceStateStopping     = "stopping"
	InstanceStateStopped      = "stopped"
)

// Instance is a compute instance as seen in a listing.
type Instance struct {
	ID         string
	State      string
	Type       string
	LaunchTime time.Time
}

// Terminating reports whether the instance is being or has been terminated.
func (i Instance) Terminating() bool {
	return i.State == InstanceStateShuttingDown || i.State == InstanceStateTerminated
}

// InstanceSpec holds all parameters for launching an instance.
type InstanceSpec struct {
	ImageID      string
	InstanceType string
	KeyName      string
	Tags         map[string]string
}

// QueueSpec holds all parameters for creating a queue.
type QueueSpec struct {
	Name                      string
	FIFO                      bool
	ContentBasedDeduplication bool
	Tags                      map[string]string
}

// OutgoingMessage is a message to send to a queue.
type OutgoingMessage struct {
	Body    string
	Name    string
	GroupID string
}

// Message is a message received from a queue.
type Message struct {
	ID            string
	Body          string
	Name          string
	HasName       bool
	ReceiptHandle string
}

// Identity describes the caller the credentials resolve to.
type Identity struct {
	Account string
	ARN     string
	UserID  string
}

// ComputeManager defines the interface for managing compute instances.
type ComputeManager interface {
	// CreateInstance launches exactly one instance and returns its id.
	CreateInstance(ctx context.Context, spec InstanceSpec) (string, error)
	ListInstances(ctx context.Context) ([]Instance, error)
	// GetInstance returns the instance by id, or nil if it does not exist.
	GetInstance(ctx context.Context, id string) (*Instance, error)
	TerminateInstance(ctx context.Context, id string) error
}

// StorageManager defines the interface for managing buckets and objects.
type StorageManager interface {
	CreateBucket(ctx context.Context, name string, tags map[string]string) error
	BucketExists(ctx context.Context, name string) (bool, error)
	ListBuckets(ctx context.Context) ([]string, error)
	PutObject(ctx context.Context, bucket, key string, data []byte) error
	// EmptyBucket deletes every object in the bucket and returns how many were deleted.
	EmptyBucket(ctx context.Context, bucket string) (int, error)
	// DeleteBucket deletes a bucket. The bucket must be empty.
	DeleteBucket(ctx context.Context, bucket string) error
}

// QueueManager defines the interface for managing queues and messages.
type QueueManager interface {
	// CreateQueue creates a queue and returns its URL.
	CreateQueue(ctx context.Context, spec QueueSpec) (string, error)
	ListQueues(ctx context.Context) ([]string, error)
	// SendMessage sends a message and returns the provider message id.
	SendMessage(ctx context.Context, queueURL string, msg OutgoingMessage) (string, error)
	// ReceiveMessage returns at most one message, or nil if none is available.
	ReceiveMessage(ctx context.Context, queueURL string, wait time.Duration) (*Message, error)
	DeleteMessage(ctx context.Context, queueURL, receiptHandle string) error
	// CountMessages returns the approximate number of visible messages.
	CountMessages(ctx context.Context, queueURL string) (int, error)
	DeleteQueue(ctx context.Context, queueURL string) error
}

// IdentityResolver resolves the identity behind the configured credentials.
type IdentityResolver interface {
	CallerIdentity(ctx context.Context) (*Identity, error)
}

// CloudManager combines all cloud interfaces.
type CloudManager interface {
	ComputeManager
	StorageManager
	QueueManager
	IdentityResolver
	Region() string
}
