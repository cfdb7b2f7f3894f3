// Package orchestration coordinates a lifecycle run.
//
// It defines the order of the lifecycle phases and hands them to
// provisioning.RunPhases. The work itself is done by the provisioners in
// the internal/provisioning subpackages.
//
// # Workflow
//
// The Orchestrator executes the following phases in order:
//  1. create - Instance, bucket and FIFO queue
//  2. wait after-create - Resources reachable
//  3. list - Instances, buckets and queues
//  4. exercise - Object upload and message round trip
//  5. wait before-cleanup - Queue drained
//  6. destroy - Terminate, empty and delete
//  7. confirm - Queue gone from listings
//  8. wait after-cleanup - Deletions observed
//  9. verify - Final listing
//
// Phases 6 to 9 also run after an abort or an interrupt.
//
// # Usage
//
//	orch := orchestration.NewOrchestrator(cloud, cfg, observer)
//	report, err := orch.Run(ctx)
//
// Runs are not idempotent: every run creates a new set of resources.
package orchestration
