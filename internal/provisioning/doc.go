// Package provisioning provides shared types and the pipeline for a
// resource lifecycle run.
//
// # Subpackages
//
//   - create/: Instance, bucket and queue creation
//   - readiness/: Wait points (fixed delays or bounded readiness polls)
//   - inventory/: Instance, bucket and queue listings
//   - exercise/: Object upload and the queue message round trip
//   - destroy/: Resource deletion and queue-deletion confirmation
//
// # Core Types
//
// Context carries configuration, state, the cloud client, the observer and
// the run Report. Phase defines a lifecycle step with Name() and
// Provision() methods. State accumulates results from each phase (resource
// identifiers, listings, exercise results). Every provider call runs as a
// Step whose outcome is recorded in the Report.
package provisioning
