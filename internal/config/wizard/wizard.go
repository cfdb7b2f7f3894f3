package wizard

import (
	"context"
	"fmt"
)

// WizardResult holds all the answers from the interactive wizard.
type WizardResult struct {
	// Account
	Region  string
	Profile string

	// Compute
	InstanceType string
	ImageID      string
	KeyName      string

	// Storage and messaging
	BucketPrefix string
	QueueName    string

	// Run behavior
	WaitStrategy  string
	FailurePolicy string

	// Advanced options (only set in advanced mode)
	AdvancedOptions *AdvancedOptions
}

// AdvancedOptions holds advanced configuration options.
type AdvancedOptions struct {
	// EndpointURL points the clients at LocalStack or another compatible endpoint.
	EndpointURL string

	MessageGroupID string
	LongPolling    bool

	ObjectKey   string
	MessageBody string
	MessageName string

	// Tags is the raw comma-separated key=value input.
	Tags string
}

// RunWizard runs the interactive configuration wizard.
// If advanced is true, additional configuration options are shown.
// The context is used for cancellation support (e.g., Ctrl+C).
func RunWizard(ctx context.Context, advanced bool) (*WizardResult, error) {
	result := &WizardResult{}

	if err := runAccountGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("account: %w", err)
	}

	if err := runInstanceGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("instance: %w", err)
	}

	if err := runStorageGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	if err := runBehaviorGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("behavior: %w", err)
	}

	if advanced {
		advOpts := &AdvancedOptions{}

		if err := runEndpointGroup(ctx, advOpts); err != nil {
			return nil, fmt.Errorf("endpoint: %w", err)
		}

		if err := runMessagingGroup(ctx, advOpts); err != nil {
			return nil, fmt.Errorf("messaging: %w", err)
		}

		if err := runTagsGroup(ctx, advOpts); err != nil {
			return nil, fmt.Errorf("tags: %w", err)
		}

		result.AdvancedOptions = advOpts
	}

	return result, nil
}
