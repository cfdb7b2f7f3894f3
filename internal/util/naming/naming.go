package naming

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// FIFOSuffix is the mandatory suffix of FIFO queue names.
const FIFOSuffix = ".fifo"

// MaxBucketPrefixLength leaves room for "-" and a 36 character UUID within
// the 63 character bucket name limit.
const MaxBucketPrefixLength = 63 - 1 - 36

var bucketNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)

// Bucket returns a globally unique bucket name for the given prefix.
func Bucket(prefix string) string {
	return fmt.Sprintf("%s-%s", strings.ToLower(prefix), uuid.NewString())
}

// RunID returns a new identifier for one lifecycle run.
func RunID() string {
	return uuid.NewString()
}

// Queue returns name with the FIFO suffix, adding it when missing.
func Queue(name string) string {
	if strings.HasSuffix(name, FIFOSuffix) {
		return name
	}
	return name + FIFOSuffix
}

// QueueNameFromURL returns the last path segment of a queue URL.
func QueueNameFromURL(queueURL string) string {
	idx := strings.LastIndex(queueURL, "/")
	if idx < 0 {
		return queueURL
	}
	return queueURL[idx+1:]
}

// ValidBucketName reports whether name satisfies the S3 general purpose
// bucket naming rules.
func ValidBucketName(name string) bool {
	if !bucketNameRegex.MatchString(name) {
		return false
	}
	return !strings.Contains(name, "..")
}
