package config

import "time"

// WaitStrategy selects how the run waits for eventually consistent state.
type WaitStrategy string

const (
	// WaitStrategyPoll polls resource readiness with bounded attempts.
	WaitStrategyPoll WaitStrategy = "poll"
	// WaitStrategySleep sleeps for fixed delays. This is the default.
	WaitStrategySleep WaitStrategy = "sleep"
)

// FailurePolicy selects what happens after a step fails.
type FailurePolicy string

const (
	// FailurePolicyContinue logs the failure and keeps going.
	FailurePolicyContinue FailurePolicy = "continue"
	// FailurePolicyAbort skips to the cleanup phases after the first failure.
	FailurePolicyAbort FailurePolicy = "abort"
)

// Config holds the lifecycle run configuration.
type Config struct {
	// Region is the AWS region all clients are bound to.
	Region string `yaml:"region"`

	// Profile optionally selects a named profile from the shared AWS config.
	// Credentials always come from the SDK default chain.
	Profile string `yaml:"profile,omitempty"`

	// EndpointURL points every client at an AWS-compatible endpoint (LocalStack).
	EndpointURL string `yaml:"endpoint_url,omitempty"`

	Instance InstanceConfig `yaml:"instance"`
	Bucket   BucketConfig   `yaml:"bucket"`
	Queue    QueueConfig    `yaml:"queue"`
	Exercise ExerciseConfig `yaml:"exercise"`

	WaitStrategy  WaitStrategy  `yaml:"wait_strategy"`
	FailurePolicy FailurePolicy `yaml:"failure_policy"`

	// Tags are added to every created resource.
	Tags map[string]string `yaml:"tags,omitempty"`
}

// InstanceConfig describes the compute instance.
type InstanceConfig struct {
	ImageID string `yaml:"image_id"`
	Type    string `yaml:"type"`
	KeyName string `yaml:"key_name,omitempty"`
	Name    string `yaml:"name,omitempty"`
}

// BucketConfig describes the storage bucket.
type BucketConfig struct {
	// Prefix is combined with a random UUID to form the bucket name.
	Prefix string `yaml:"prefix"`
}

// QueueConfig describes the message queue.
type QueueConfig struct {
	Name           string `yaml:"name"`
	MessageGroupID string `yaml:"message_group_id"`

	// ReceiveWait enables long polling on receive (0 disables it, max 20s).
	ReceiveWait time.Duration `yaml:"receive_wait"`
}

// ExerciseConfig describes what the exercise phase uploads and sends.
type ExerciseConfig struct {
	ObjectKey     string `yaml:"object_key"`
	ObjectContent string `yaml:"object_content"`
	MessageBody   string `yaml:"message_body"`
	MessageName   string `yaml:"message_name"`
}

// Default returns a configuration with every field set to its default.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills every empty field with its default value.
func (c *Config) ApplyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.Instance.ImageID == "" {
		c.Instance.ImageID = DefaultImageID
	}
	if c.Instance.Type == "" {
		c.Instance.Type = DefaultInstanceType
	}
	if c.Bucket.Prefix == "" {
		c.Bucket.Prefix = DefaultBucketPrefix
	}
	if c.Queue.Name == "" {
		c.Queue.Name = DefaultQueueName
	}
	if c.Queue.MessageGroupID == "" {
		c.Queue.MessageGroupID = DefaultMessageGroupID
	}
	if c.Exercise.ObjectKey == "" {
		c.Exercise.ObjectKey = DefaultObjectKey
	}
	if c.Exercise.MessageBody == "" {
		c.Exercise.MessageBody = DefaultMessageBody
	}
	if c.Exercise.MessageName == "" {
		c.Exercise.MessageName = DefaultMessageName
	}
	if c.WaitStrategy == "" {
		c.WaitStrategy = WaitStrategySleep
	}
	if c.FailurePolicy == "" {
		c.FailurePolicy = FailurePolicyContinue
	}
}
