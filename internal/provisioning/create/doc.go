// Package create provisions the instance, bucket and queue of a run.
//
// Each resource is created by its own step so a failed creation never stops
// the others. Only successfully created resources are recorded in State;
// later phases skip work for anything missing.
package create
