// Package inventory lists the instances, buckets and queues of the account.
//
// The listing runs twice per lifecycle: once after creation and once after
// cleanup, where it also confirms that the run's resources are gone.
package inventory
