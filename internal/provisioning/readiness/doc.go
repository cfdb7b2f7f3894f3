// Package readiness implements the three wait points of a lifecycle run.
//
// With the sleep strategy a wait point is a fixed delay. With the poll
// strategy it checks the state the next phases depend on, with a bounded
// number of attempts at a fixed interval:
//
//   - after-create: instance running, bucket reachable, queue listed
//   - before-cleanup: queue drained
//   - after-cleanup: instance terminating, bucket and queue gone
//
// A wait that runs out of attempts or is interrupted is a warning. Only an
// error that makes further polling pointless, such as denied access, fails
// the step.
package readiness
