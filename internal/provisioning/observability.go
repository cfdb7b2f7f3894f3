package provisioning

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Logger is the minimal logging interface used by phases.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Observer defines the interface for structured observability during a run.
type Observer interface {
	Logger

	// Event emits a structured event
	Event(event Event)

	// Progress reports progress for a phase
	Progress(phase string, current, total int)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured lifecycle event.
type Event struct {
	Type      EventType         // Type of event
	Phase     string            // Phase name (e.g., "create", "destroy")
	Message   string            // Human-readable message
	Resource  string            // Resource name/ID if applicable
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of lifecycle event.
type EventType string

const (
	// EventPhaseStarted indicates a phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a phase completed.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseFailed indicates a phase had at least one failed step.
	EventPhaseFailed EventType = "phase.failed"
	// EventPhaseSkipped indicates a phase was not run.
	EventPhaseSkipped EventType = "phase.skipped"

	// EventResourceCreating indicates a resource is being created.
	EventResourceCreating EventType = "resource.creating"
	// EventResourceCreated indicates a resource was created successfully.
	EventResourceCreated EventType = "resource.created"
	// EventResourceDeleting indicates a resource is being deleted.
	EventResourceDeleting EventType = "resource.deleting"
	// EventResourceDeleted indicates a resource was deleted successfully.
	EventResourceDeleted EventType = "resource.deleted"

	// EventStepFailed indicates a step failed.
	EventStepFailed EventType = "step.failed"
	// EventStepWarning indicates a step finished with a non-fatal problem.
	EventStepWarning EventType = "step.warning"
	// EventStepSkipped indicates a step was skipped because its input is missing.
	EventStepSkipped EventType = "step.skipped"

	// EventWaiting indicates a wait point has started.
	EventWaiting EventType = "wait"
	// EventProgress indicates progress in a long-running operation.
	EventProgress EventType = "progress"
)

// NewLogger creates a console logger writing to out. Colors are only
// enabled when out is a terminal.
func NewLogger(out io.Writer, level zerolog.Level) zerolog.Logger {
	noColor := true
	if f, ok := out.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: out, NoColor: noColor, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger().Level(level)
}

// ConsoleObserver implements Observer on top of zerolog.
type ConsoleObserver struct {
	log           zerolog.Logger
	contextFields map[string]string
}

// NewConsoleObserver creates a new zerolog-backed observer.
func NewConsoleObserver(log zerolog.Logger) *ConsoleObserver {
	return &ConsoleObserver{
		log:           log,
		contextFields: make(map[string]string),
	}
}

// Printf logs a free-form message at info level.
func (o *ConsoleObserver) Printf(format string, v ...interface{}) {
	o.withContext(o.log.Info()).Msgf(format, v...)
}

// Event implements Observer interface.
func (o *ConsoleObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	e := o.levelFor(event.Type).Str("event", string(event.Type))
	if event.Phase != "" {
		e = e.Str("phase", event.Phase)
	}
	if event.Resource != "" {
		e = e.Str("resource", event.Resource)
	}
	for _, k := range slices.Sorted(maps.Keys(event.Fields)) {
		e = e.Str(k, event.Fields[k])
	}
	o.withContext(e).Msg(event.Message)
}

// Progress implements Observer interface.
func (o *ConsoleObserver) Progress(phase string, current, total int) {
	e := o.withContext(o.log.Debug()).Str("phase", phase).Int("current", current).Int("total", total)
	if total > 0 {
		e = e.Int("percent", (current*100)/total)
	}
	e.Msg("progress")
}

// WithFields implements Observer interface.
func (o *ConsoleObserver) WithFields(fields map[string]string) Observer {
	newFields := make(map[string]string, len(o.contextFields)+len(fields))
	maps.Copy(newFields, o.contextFields)
	maps.Copy(newFields, fields)

	return &ConsoleObserver{
		log:           o.log,
		contextFields: newFields,
	}
}

func (o *ConsoleObserver) levelFor(t EventType) *zerolog.Event {
	switch t {
	case EventPhaseFailed, EventStepFailed:
		return o.log.Error()
	case EventStepWarning, EventPhaseSkipped, EventStepSkipped:
		return o.log.Warn()
	default:
		return o.log.Info()
	}
}

func (o *ConsoleObserver) withContext(e *zerolog.Event) *zerolog.Event {
	for _, k := range slices.Sorted(maps.Keys(o.contextFields)) {
		e = e.Str(k, o.contextFields[k])
	}
	return e
}

// Helper functions for common events

// LogPhaseStart logs a phase start event.
func LogPhaseStart(observer Observer, phase string) {
	observer.Event(Event{
		Type:    EventPhaseStarted,
		Phase:   phase,
		Message: "starting",
	})
}

// LogPhaseComplete logs a phase completion event.
func LogPhaseComplete(observer Observer, phase string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventPhaseCompleted,
		Phase:   phase,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogPhaseFailed logs a phase failure event.
func LogPhaseFailed(observer Observer, phase string, err error) {
	observer.Event(Event{
		Type:    EventPhaseFailed,
		Phase:   phase,
		Message: fmt.Sprintf("failed: %v", err),
	})
}

// LogPhaseSkipped logs a phase that was not run.
func LogPhaseSkipped(observer Observer, phase, reason string) {
	observer.Event(Event{
		Type:    EventPhaseSkipped,
		Phase:   phase,
		Message: "skipped: " + reason,
	})
}

// LogResourceCreating logs a resource creation start event.
func LogResourceCreating(observer Observer, phase, resourceType, resourceName string) {
	observer.Event(Event{
		Type:     EventResourceCreating,
		Phase:    phase,
		Resource: resourceName,
		Message:  fmt.Sprintf("creating %s", resourceType),
		Fields: map[string]string{
			"type": resourceType,
		},
	})
}

// LogResourceCreated logs a successful resource creation event.
func LogResourceCreated(observer Observer, phase, resourceType, resourceName, resourceID string) {
	observer.Event(Event{
		Type:     EventResourceCreated,
		Phase:    phase,
		Resource: resourceName,
		Message:  fmt.Sprintf("%s created", resourceType),
		Fields: map[string]string{
			"type": resourceType,
			"id":   resourceID,
		},
	})
}

// LogResourceDeleting logs a resource deletion start event.
func LogResourceDeleting(observer Observer, phase, resourceType, resourceName string) {
	observer.Event(Event{
		Type:     EventResourceDeleting,
		Phase:    phase,
		Resource: resourceName,
		Message:  fmt.Sprintf("deleting %s", resourceType),
		Fields: map[string]string{
			"type": resourceType,
		},
	})
}

// LogResourceDeleted logs a successful resource deletion event.
func LogResourceDeleted(observer Observer, phase, resourceType, resourceName string) {
	observer.Event(Event{
		Type:     EventResourceDeleted,
		Phase:    phase,
		Resource: resourceName,
		Message:  fmt.Sprintf("%s deleted", resourceType),
		Fields: map[string]string{
			"type": resourceType,
		},
	})
}

// LogWaiting logs the start of a wait point.
func LogWaiting(observer Observer, phase, message string) {
	observer.Event(Event{
		Type:    EventWaiting,
		Phase:   phase,
		Message: message,
	})
}
