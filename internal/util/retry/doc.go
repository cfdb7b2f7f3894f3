// Package retry provides bounded, fixed-interval polling for eventually
// consistent cloud state.
//
// The [Poll] function evaluates a condition up to a maximum number of
// attempts with a constant delay between attempts. There is deliberately
// no backoff: callers wait for control-plane state (a deleted queue
// dropping out of a listing, an instance reaching "running") whose
// propagation time does not depend on how often it is asked about.
package retry
