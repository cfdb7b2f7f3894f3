// Package config defines the configuration model of a lifecycle run.
//
// The [Config] struct describes which resources are created (instance
// image and type, bucket prefix, queue name), what the exercise phase
// uploads and sends, how wait points are handled and what happens after a
// failed step. It is loaded from YAML by [LoadFile] or built from
// [Default]. Wait and poll durations live in [Timeouts] and are read from
// CLOUDPROBE_* environment variables.
package config
