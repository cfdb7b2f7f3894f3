package testing

import (
	"maps"
	"time"

	"github.com/cloudprobe/cloudprobe/internal/config"
)

// ConfigBuilder provides a fluent interface for constructing test configs.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfigBuilder creates a new ConfigBuilder with all defaults applied,
// except that it polls readiness: the fake cloud settles immediately, so
// polls exercise the readiness checks without waiting.
func NewConfigBuilder() *ConfigBuilder {
	cfg := config.Default()
	cfg.WaitStrategy = config.WaitStrategyPoll
	return &ConfigBuilder{cfg: *cfg}
}

// WithRegion sets the region.
func (b *ConfigBuilder) WithRegion(region string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Region = region
	return newBuilder
}

// WithEndpoint sets the endpoint override.
func (b *ConfigBuilder) WithEndpoint(url string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.EndpointURL = url
	return newBuilder
}

// WithBucketPrefix sets the bucket name prefix.
func (b *ConfigBuilder) WithBucketPrefix(prefix string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Bucket.Prefix = prefix
	return newBuilder
}

// WithQueue sets the queue name and message group.
func (b *ConfigBuilder) WithQueue(name, groupID string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Queue.Name = name
	newBuilder.cfg.Queue.MessageGroupID = groupID
	return newBuilder
}

// WithReceiveWait sets the receive long-poll duration.
func (b *ConfigBuilder) WithReceiveWait(d time.Duration) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Queue.ReceiveWait = d
	return newBuilder
}

// WithMessage sets the message body and name sent by the exercise phase.
func (b *ConfigBuilder) WithMessage(body, name string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Exercise.MessageBody = body
	newBuilder.cfg.Exercise.MessageName = name
	return newBuilder
}

// WithObject sets the object uploaded by the exercise phase.
func (b *ConfigBuilder) WithObject(key, content string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Exercise.ObjectKey = key
	newBuilder.cfg.Exercise.ObjectContent = content
	return newBuilder
}

// WithWaitStrategy sets the wait strategy.
func (b *ConfigBuilder) WithWaitStrategy(s config.WaitStrategy) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.WaitStrategy = s
	return newBuilder
}

// WithFailurePolicy sets the failure policy.
func (b *ConfigBuilder) WithFailurePolicy(p config.FailurePolicy) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.FailurePolicy = p
	return newBuilder
}

// WithTag adds a user tag.
func (b *ConfigBuilder) WithTag(key, value string) *ConfigBuilder {
	newBuilder := b.clone()
	if newBuilder.cfg.Tags == nil {
		newBuilder.cfg.Tags = make(map[string]string)
	}
	newBuilder.cfg.Tags[key] = value
	return newBuilder
}

// Build returns the constructed config.
func (b *ConfigBuilder) Build() *config.Config {
	cfg := b.clone().cfg
	return &cfg
}

// clone creates a deep copy of the builder for immutability.
func (b *ConfigBuilder) clone() *ConfigBuilder {
	newCfg := b.cfg
	if b.cfg.Tags != nil {
		newCfg.Tags = make(map[string]string, len(b.cfg.Tags))
		maps.Copy(newCfg.Tags, b.cfg.Tags)
	}
	return &ConfigBuilder{cfg: newCfg}
}

// MinimalConfig returns a minimal valid config for simple tests.
func MinimalConfig() *config.Config {
	return NewConfigBuilder().Build()
}
