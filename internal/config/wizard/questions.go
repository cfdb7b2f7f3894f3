package wizard

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/cloudprobe/cloudprobe/internal/config"
	"github.com/cloudprobe/cloudprobe/internal/util/naming"
)

// bucketPrefixRegex mirrors the prefix rule enforced by config validation.
var bucketPrefixRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// queueBaseRegex matches a queue name without the FIFO suffix.
var queueBaseRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,75}$`)

// runAccountGroup prompts for region and profile.
func runAccountGroup(ctx context.Context, result *WizardResult) error {
	result.Region = config.DefaultRegion

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Region").
				Description("AWS region for every resource in the run").
				Options(RegionsToOptions()...).
				Value(&result.Region),
			huh.NewInput().
				Title("AWS Profile (Optional)").
				Description("Named profile from ~/.aws/config. Leave empty for the default credential chain.").
				Placeholder("default").
				Value(&result.Profile),
		).Title("Account"),
	).RunWithContext(ctx)
}

// runInstanceGroup prompts for the compute instance.
func runInstanceGroup(ctx context.Context, result *WizardResult) error {
	result.InstanceType = config.DefaultInstanceType
	result.ImageID = config.DefaultImageID

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Instance Type").
				Description("Choose the EC2 instance type").
				Options(InstanceTypesToOptions(InstanceTypes)...).
				Value(&result.InstanceType),
			huh.NewInput().
				Title("Image ID").
				Description("AMI to launch (must exist in the selected region)").
				Value(&result.ImageID).
				Validate(validateImageID),
			huh.NewInput().
				Title("Key Pair (Optional)").
				Description("EC2 key pair name. Leave empty to launch without one.").
				Value(&result.KeyName),
		).Title("Instance"),
	).RunWithContext(ctx)
}

// runStorageGroup prompts for bucket prefix and queue name.
func runStorageGroup(ctx context.Context, result *WizardResult) error {
	result.BucketPrefix = config.DefaultBucketPrefix
	result.QueueName = config.DefaultQueueName

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Bucket Prefix").
				Description("A random UUID is appended to form the bucket name").
				Value(&result.BucketPrefix).
				Validate(validateBucketPrefix),
			huh.NewInput().
				Title("Queue Name").
				Description("FIFO queue name (\".fifo\" is added if missing)").
				Value(&result.QueueName).
				Validate(validateQueueName),
		).Title("Storage & Messaging"),
	).RunWithContext(ctx)
}

// runBehaviorGroup prompts for wait strategy and failure policy.
func runBehaviorGroup(ctx context.Context, result *WizardResult) error {
	result.WaitStrategy = string(config.WaitStrategySleep)
	result.FailurePolicy = string(config.FailurePolicyContinue)

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Wait Strategy").
				Description("How the run waits for eventually consistent state").
				Options(WaitStrategyOptions...).
				Value(&result.WaitStrategy),
			huh.NewSelect[string]().
				Title("Failure Policy").
				Description("What happens after a step fails. Cleanup always runs.").
				Options(FailurePolicyOptions...).
				Value(&result.FailurePolicy),
		).Title("Run Behavior"),
	).RunWithContext(ctx)
}

// runEndpointGroup prompts for a custom endpoint (advanced mode).
func runEndpointGroup(ctx context.Context, opts *AdvancedOptions) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Endpoint URL (Optional)").
				Description("AWS-compatible endpoint such as LocalStack").
				Placeholder("http://localhost:4566").
				Value(&opts.EndpointURL).
				Validate(validateEndpoint),
		).Title("Endpoint"),
	).RunWithContext(ctx)
}

// runMessagingGroup prompts for queue and exercise payload settings (advanced mode).
func runMessagingGroup(ctx context.Context, opts *AdvancedOptions) error {
	opts.MessageGroupID = config.DefaultMessageGroupID
	opts.ObjectKey = config.DefaultObjectKey
	opts.MessageBody = config.DefaultMessageBody
	opts.MessageName = config.DefaultMessageName

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Message Group ID").
				Value(&opts.MessageGroupID).
				Validate(requireNonEmpty),
			huh.NewConfirm().
				Title("Enable Long Polling").
				Description("Wait up to 20s for the message on receive").
				Value(&opts.LongPolling),
			huh.NewInput().
				Title("Object Key").
				Value(&opts.ObjectKey).
				Validate(requireNonEmpty),
			huh.NewInput().
				Title("Message Body").
				Value(&opts.MessageBody).
				Validate(requireNonEmpty),
			huh.NewInput().
				Title("Message Name").
				Description("Sent as the \"name\" message attribute").
				Value(&opts.MessageName),
		).Title("Messaging"),
	).RunWithContext(ctx)
}

// runTagsGroup prompts for extra resource tags (advanced mode).
func runTagsGroup(ctx context.Context, opts *AdvancedOptions) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Tags (Optional)").
				Description("Comma-separated key=value pairs added to every resource").
				Placeholder("team=platform, env=dev").
				Value(&opts.Tags).
				Validate(validateTags),
		).Title("Tags"),
	).RunWithContext(ctx)
}

func validateImageID(s string) error {
	if !strings.HasPrefix(s, "ami-") {
		return errImageIDInvalid
	}
	return nil
}

// validateBucketPrefix validates the bucket prefix format.
func validateBucketPrefix(s string) error {
	if s == "" {
		return errBucketPrefixRequired
	}
	if len(s) > naming.MaxBucketPrefixLength || !bucketPrefixRegex.MatchString(s) {
		return errBucketPrefixInvalid
	}
	return nil
}

// validateQueueName validates the queue name with or without the FIFO suffix.
func validateQueueName(s string) error {
	if s == "" {
		return errQueueNameRequired
	}
	if !queueBaseRegex.MatchString(strings.TrimSuffix(s, naming.FIFOSuffix)) {
		return errQueueNameInvalid
	}
	return nil
}

// validateEndpoint accepts an empty value or an absolute http(s) URL.
func validateEndpoint(s string) error {
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errEndpointInvalid
	}
	return nil
}

func validateTags(s string) error {
	_, err := parseTags(s)
	return err
}

func requireNonEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return errValueRequired
	}
	return nil
}

// parseTags parses comma-separated key=value pairs.
func parseTags(input string) (map[string]string, error) {
	tags := map[string]string{}
	for _, p := range strings.Split(input, ",") {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		key, value, ok := strings.Cut(trimmed, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errTagInvalid
		}
		tags[key] = strings.TrimSpace(value)
	}
	if len(tags) == 0 {
		return nil, nil
	}
	return tags, nil
}
