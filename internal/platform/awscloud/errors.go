package awscloud

import (
	"errors"
	"fmt"

	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/aws/smithy-go"
)

// ErrTagging is returned when a resource was created but could not be tagged.
var ErrTagging = errors.New("resource created but tagging failed")

// errMissing builds the error returned when a required identifier is empty.
func errMissing(what string) error {
	return fmt.Errorf("%s is required", what)
}

// isAPIErrorCode checks if the error is a smithy API error with one of the given codes.
func isAPIErrorCode(err error, codes ...string) bool {
	if err == nil {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		for _, c := range codes {
			if code == c {
				return true
			}
		}
	}
	return false
}

// IsNotFound checks if an error indicates a resource was not found.
// A malformed identifier is not a missing resource.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}

	// Check for typed errors first
	var nsb *s3types.NoSuchBucket
	if errors.As(err, &nsb) {
		return true
	}
	var nf *s3types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var qdne *sqstypes.QueueDoesNotExist
	if errors.As(err, &qdne) {
		return true
	}

	return isAPIErrorCode(err,
		"NotFound", "NoSuchBucket", "404",
		"AWS.SimpleQueueService.NonExistentQueue", "QueueDoesNotExist",
		"InvalidInstanceID.NotFound",
	)
}

// IsQueueDeletedRecently checks if a queue name is still blocked after deletion.
// SQS refuses to recreate a queue for 60 seconds after it was deleted.
func IsQueueDeletedRecently(err error) bool {
	var qdr *sqstypes.QueueDeletedRecently
	if errors.As(err, &qdr) {
		return true
	}
	return isAPIErrorCode(err, "AWS.SimpleQueueService.QueueDeletedRecently", "QueueDeletedRecently")
}

// IsAccessDenied checks if an error is caused by missing credentials or permissions.
// These errors are fatal and should not be retried.
func IsAccessDenied(err error) bool {
	return isAPIErrorCode(err,
		"AccessDenied", "AccessDeniedException", "UnauthorizedOperation",
		"AuthFailure", "InvalidClientTokenId", "ExpiredToken", "SignatureDoesNotMatch",
	)
}

// IsThrottled checks if an error indicates rate limiting.
func IsThrottled(err error) bool {
	return isAPIErrorCode(err,
		"Throttling", "ThrottlingException", "RequestLimitExceeded",
		"SlowDown", "RequestThrottled", "AWS.SimpleQueueService.RequestThrottled",
	)
}

// isBucketAlreadyOwnedByYou checks if the error indicates the bucket exists and is owned by us.
// BucketAlreadyExists means another account owns the name and is a real failure.
func isBucketAlreadyOwnedByYou(err error) bool {
	if err == nil {
		return false
	}

	var baoby *s3types.BucketAlreadyOwnedByYou
	if errors.As(err, &baoby) {
		return true
	}
	return isAPIErrorCode(err, "BucketAlreadyOwnedByYou")
}
