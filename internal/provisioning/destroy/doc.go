// Package destroy deletes the resources of a lifecycle run.
//
// The instance is terminated, the bucket is emptied and deleted, and the
// queue is deleted. Each deletion is an independent step: a failure never
// stops the remaining deletions. Because a deleted queue keeps appearing in
// listings for a while, [PollUntilQueueAbsent] confirms its removal with a
// bounded number of listings.
//
// Both phases run even when the run was aborted or cancelled, so whatever
// was created is cleaned up.
package destroy
