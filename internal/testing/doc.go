// Package testing provides test utilities, builders, and fakes for unit and
// lifecycle tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - ConfigBuilder: Fluent builder for creating test configurations
//   - FakeCloud: Stateful in-memory CloudManager with eventual consistency and failure injection
//   - CloudFixture: Pre-configured MockClient for common scenarios
//   - MemoryObserver: Observer that records every event for assertions
//
// Usage:
//
//	cfg := testing.NewConfigBuilder().
//	    WithRegion("eu-west-1").
//	    WithFailurePolicy(config.FailurePolicyAbort).
//	    Build()
//
//	cloud := testing.NewFakeCloud("eu-west-1")
//	ctx, observer := testing.NewLifecycleContext(t, cfg, cloud)
package testing
