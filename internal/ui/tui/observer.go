package tui

import (
	"fmt"
	"maps"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cloudprobe/cloudprobe/internal/provisioning"
)

// Sender delivers messages to a running program. *tea.Program implements it.
type Sender interface {
	Send(msg tea.Msg)
}

// ProgramObserver forwards pipeline output to a Bubble Tea program.
type ProgramObserver struct {
	sender Sender
	fields map[string]string
}

// NewProgramObserver creates an observer that sends to s.
func NewProgramObserver(s Sender) *ProgramObserver {
	return &ProgramObserver{sender: s, fields: map[string]string{}}
}

// Printf implements provisioning.Logger.
func (o *ProgramObserver) Printf(format string, v ...interface{}) {
	o.sender.Send(LogMsg{Line: fmt.Sprintf(format, v...)})
}

// Event implements provisioning.Observer.
func (o *ProgramObserver) Event(event provisioning.Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if len(o.fields) > 0 {
		merged := maps.Clone(o.fields)
		maps.Copy(merged, event.Fields)
		event.Fields = merged
	}
	o.sender.Send(EventMsg{Event: event})
}

// Progress implements provisioning.Observer.
func (o *ProgramObserver) Progress(phase string, current, total int) {
	o.sender.Send(ProgressMsg{Phase: phase, Current: current, Total: total})
}

// WithFields implements provisioning.Observer.
func (o *ProgramObserver) WithFields(fields map[string]string) provisioning.Observer {
	merged := maps.Clone(o.fields)
	maps.Copy(merged, fields)
	return &ProgramObserver{sender: o.sender, fields: merged}
}

// phaseKey strips the "(i/n)" position the pipeline appends to phase names.
func phaseKey(name string) string {
	key, _, _ := strings.Cut(name, " (")
	return key
}
