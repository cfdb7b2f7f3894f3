package wizard

import (
	"time"

	"github.com/cloudprobe/cloudprobe/internal/config"
	"github.com/cloudprobe/cloudprobe/internal/util/naming"
)

// longPollWait is the receive wait used when long polling is enabled.
const longPollWait = 20 * time.Second

// BuildConfig creates a Config struct from the wizard result.
// Fields the wizard did not ask about get their defaults.
func BuildConfig(result *WizardResult) (*config.Config, error) {
	cfg := &config.Config{
		Region:  result.Region,
		Profile: result.Profile,
		Instance: config.InstanceConfig{
			ImageID: result.ImageID,
			Type:    result.InstanceType,
			KeyName: result.KeyName,
		},
		Bucket: config.BucketConfig{
			Prefix: result.BucketPrefix,
		},
		Queue: config.QueueConfig{
			Name: naming.Queue(result.QueueName),
		},
		WaitStrategy:  config.WaitStrategy(result.WaitStrategy),
		FailurePolicy: config.FailurePolicy(result.FailurePolicy),
	}

	if result.AdvancedOptions != nil {
		if err := applyAdvancedOptions(cfg, result.AdvancedOptions); err != nil {
			return nil, err
		}
	}

	cfg.ApplyDefaults()
	return cfg, nil
}

// applyAdvancedOptions applies advanced options to the config.
func applyAdvancedOptions(cfg *config.Config, opts *AdvancedOptions) error {
	cfg.EndpointURL = opts.EndpointURL

	cfg.Queue.MessageGroupID = opts.MessageGroupID
	if opts.LongPolling {
		cfg.Queue.ReceiveWait = longPollWait
	}

	cfg.Exercise.ObjectKey = opts.ObjectKey
	cfg.Exercise.MessageBody = opts.MessageBody
	cfg.Exercise.MessageName = opts.MessageName

	tags, err := parseTags(opts.Tags)
	if err != nil {
		return err
	}
	cfg.Tags = tags
	return nil
}
