// Package naming provides consistent naming functions for AWS resources.
//
// Bucket names follow the pattern {prefix}-{uuid}; the random suffix keeps
// names globally unique across runs. Queue names always carry the ".fifo"
// suffix required for FIFO queues.
package naming
