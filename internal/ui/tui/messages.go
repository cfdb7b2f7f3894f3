// Package tui provides a Bubble Tea-based terminal UI for lifecycle runs.
package tui

import "github.com/cloudprobe/cloudprobe/internal/provisioning"

// EventMsg carries a lifecycle event from the running pipeline.
type EventMsg struct {
	Event provisioning.Event
}

// ProgressMsg reports poll progress within a phase.
type ProgressMsg struct {
	Phase   string
	Current int
	Total   int
}

// LogMsg carries one status line printed by the pipeline.
type LogMsg struct {
	Line string
}

// TickMsg is sent periodically to refresh the display.
type TickMsg struct{}

// ErrMsg carries an error.
type ErrMsg struct{ Err error }

// DoneMsg signals that the run is complete.
type DoneMsg struct {
	Report *provisioning.Report
	Err    error
}
