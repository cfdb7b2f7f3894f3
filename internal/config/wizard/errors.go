package wizard

import "errors"

// Validation errors for the interactive wizard.
var (
	errBucketPrefixRequired = errors.New("bucket prefix is required")
	errBucketPrefixInvalid  = errors.New("bucket prefix must be lowercase letters, digits or hyphens, starting with a letter or digit")
	errQueueNameRequired    = errors.New("queue name is required")
	errQueueNameInvalid     = errors.New("queue name must be alphanumeric, hyphens or underscores (\".fifo\" is added if missing)")
	errEndpointInvalid      = errors.New("endpoint must be an http:// or https:// URL")
	errTagInvalid           = errors.New("tags must be comma-separated key=value pairs")
	errImageIDInvalid       = errors.New("image ID must start with ami-")
	errValueRequired        = errors.New("value is required")
)
