// Package tags provides consistent tagging utilities for AWS resources.
//
// Every resource created by a lifecycle run carries the run id and a
// managed-by marker so that leftovers from an interrupted run can be found
// and removed by hand. Tag keys use the cloudprobe.io prefix.
package tags
