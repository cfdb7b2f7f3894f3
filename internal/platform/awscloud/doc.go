// Package awscloud provides a wrapper around the AWS control-plane APIs
// used by a lifecycle run.
//
// The [CloudManager] interface groups the EC2 ([ComputeManager]), S3
// ([StorageManager]), SQS ([QueueManager]) and STS ([IdentityResolver])
// operations behind small, domain-shaped methods. [RealClient] implements
// it on top of aws-sdk-go-v2, instrumenting every call with Prometheus
// metrics and a per-call timeout; [MockClient] is a function-field mock
// for tests.
package awscloud
