package tags

// ReservedPrefix is the prefix of every tag key set by cloudprobe itself.
const ReservedPrefix = "cloudprobe.io/"

// Standard tag keys for AWS resources.
const (
	// KeyRunID identifies the lifecycle run that created a resource
	KeyRunID = ReservedPrefix + "run-id"

	// KeyManagedBy identifies the management system
	KeyManagedBy = ReservedPrefix + "managed-by"

	// KeyResource identifies the role a resource plays in the run
	KeyResource = ReservedPrefix + "resource"

	// KeyName is the AWS console display name
	KeyName = "Name"
)

// ManagedByCloudprobe is the managed-by value for every tagged resource.
const ManagedByCloudprobe = "cloudprobe"

// Resource values
const (
	ResourceInstance = "instance"
	ResourceBucket   = "bucket"
	ResourceQueue    = "queue"
)

// TagBuilder provides a fluent interface for building resource tags.
type TagBuilder struct {
	tags map[string]string
}

// NewTagBuilder creates a new tag builder with the run id pre-set.
func NewTagBuilder(runID string) *TagBuilder {
	return &TagBuilder{
		tags: map[string]string{
			KeyRunID:     runID,
			KeyManagedBy: ManagedByCloudprobe,
		},
	}
}

// WithResource adds the resource role tag.
func (tb *TagBuilder) WithResource(resource string) *TagBuilder {
	tb.tags[KeyResource] = resource
	return tb
}

// WithName adds a Name tag only if name is non-empty.
func (tb *TagBuilder) WithName(name string) *TagBuilder {
	if name != "" {
		tb.tags[KeyName] = name
	}
	return tb
}

// Merge adds all tags from the provided map.
func (tb *TagBuilder) Merge(extra map[string]string) *TagBuilder {
	for k, v := range extra {
		tb.tags[k] = v
	}
	return tb
}

// Build returns a copy of the tags map.
func (tb *TagBuilder) Build() map[string]string {
	result := make(map[string]string, len(tb.tags))
	for k, v := range tb.tags {
		result[k] = v
	}
	return result
}
