package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cloudprobe/cloudprobe/internal/util/naming"
	"github.com/cloudprobe/cloudprobe/internal/util/tags"
)

// regionRegex matches AWS region names such as us-east-2 or ap-southeast-1.
var regionRegex = regexp.MustCompile(`^[a-z]{2}(-gov|-iso[a-z]?)?-[a-z]+-\d$`)

// bucketPrefixRegex matches prefixes that keep the generated bucket name valid.
var bucketPrefixRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// queueNameRegex matches FIFO queue names: up to 80 characters including ".fifo".
var queueNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,75}\.fifo$`)

// maxReceiveWait is the SQS long polling limit.
const maxReceiveWait = 20 * time.Second

// Validate checks the configuration for common errors and returns a detailed error if validation fails.
func (c *Config) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("region is required")
	}
	if c.EndpointURL == "" && !regionRegex.MatchString(c.Region) {
		return fmt.Errorf("invalid region %q", c.Region)
	}

	if err := c.validateInstance(); err != nil {
		return fmt.Errorf("instance validation failed: %w", err)
	}

	if err := c.validateBucket(); err != nil {
		return fmt.Errorf("bucket validation failed: %w", err)
	}

	if err := c.validateQueue(); err != nil {
		return fmt.Errorf("queue validation failed: %w", err)
	}

	if c.Exercise.ObjectKey == "" {
		return fmt.Errorf("exercise.object_key is required")
	}
	if c.Exercise.MessageBody == "" {
		return fmt.Errorf("exercise.message_body is required")
	}

	for k := range c.Tags {
		if strings.HasPrefix(k, tags.ReservedPrefix) {
			return fmt.Errorf("tag %q uses the reserved prefix %s", k, tags.ReservedPrefix)
		}
	}

	switch c.WaitStrategy {
	case WaitStrategyPoll, WaitStrategySleep:
	default:
		return fmt.Errorf("invalid wait_strategy %q (must be %q or %q)", c.WaitStrategy, WaitStrategyPoll, WaitStrategySleep)
	}

	switch c.FailurePolicy {
	case FailurePolicyContinue, FailurePolicyAbort:
	default:
		return fmt.Errorf("invalid failure_policy %q (must be %q or %q)", c.FailurePolicy, FailurePolicyContinue, FailurePolicyAbort)
	}

	return nil
}

func (c *Config) validateInstance() error {
	if c.Instance.ImageID == "" {
		return fmt.Errorf("image_id is required")
	}
	if !strings.HasPrefix(c.Instance.ImageID, "ami-") {
		return fmt.Errorf("image_id %q must start with ami-", c.Instance.ImageID)
	}
	if c.Instance.Type == "" {
		return fmt.Errorf("type is required")
	}
	if !strings.Contains(c.Instance.Type, ".") {
		return fmt.Errorf("type %q must look like <family>.<size>", c.Instance.Type)
	}
	return nil
}

func (c *Config) validateBucket() error {
	if c.Bucket.Prefix == "" {
		return fmt.Errorf("prefix is required")
	}
	if len(c.Bucket.Prefix) > naming.MaxBucketPrefixLength {
		return fmt.Errorf("prefix %q is longer than %d characters", c.Bucket.Prefix, naming.MaxBucketPrefixLength)
	}
	if !bucketPrefixRegex.MatchString(c.Bucket.Prefix) {
		return fmt.Errorf("prefix %q may only contain lowercase letters, digits and hyphens", c.Bucket.Prefix)
	}
	return nil
}

func (c *Config) validateQueue() error {
	if !queueNameRegex.MatchString(c.Queue.Name) {
		return fmt.Errorf("name %q must be 1-80 alphanumeric, hyphen or underscore characters ending in .fifo", c.Queue.Name)
	}
	if c.Queue.MessageGroupID == "" {
		return fmt.Errorf("message_group_id is required for FIFO queues")
	}
	if c.Queue.ReceiveWait < 0 || c.Queue.ReceiveWait > maxReceiveWait {
		return fmt.Errorf("receive_wait must be between 0 and %v", maxReceiveWait)
	}
	return nil
}
