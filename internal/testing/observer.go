package testing

import (
	"fmt"
	"maps"
	"sync"

	"github.com/cloudprobe/cloudprobe/internal/provisioning"
)

// MemoryObserver is a provisioning.Observer that records every message and
// event. Observers derived with WithFields share the same record.
type MemoryObserver struct {
	rec    *record
	fields map[string]string
}

type record struct {
	mu       sync.Mutex
	events   []provisioning.Event
	messages []string
}

// NewMemoryObserver creates an empty MemoryObserver.
func NewMemoryObserver() *MemoryObserver {
	return &MemoryObserver{rec: &record{}, fields: map[string]string{}}
}

// Printf records a formatted message.
func (o *MemoryObserver) Printf(format string, v ...interface{}) {
	o.rec.mu.Lock()
	defer o.rec.mu.Unlock()
	o.rec.messages = append(o.rec.messages, fmt.Sprintf(format, v...))
}

// Event records an event with the observer's fields merged in.
func (o *MemoryObserver) Event(event provisioning.Event) {
	if len(o.fields) > 0 {
		merged := maps.Clone(o.fields)
		maps.Copy(merged, event.Fields)
		event.Fields = merged
	}
	o.rec.mu.Lock()
	defer o.rec.mu.Unlock()
	o.rec.events = append(o.rec.events, event)
}

// Progress records a progress event.
func (o *MemoryObserver) Progress(phase string, current, total int) {
	o.Event(provisioning.Event{
		Type:    provisioning.EventProgress,
		Phase:   phase,
		Message: fmt.Sprintf("%d/%d", current, total),
	})
}

// WithFields returns an observer sharing this record with extra fields.
func (o *MemoryObserver) WithFields(fields map[string]string) provisioning.Observer {
	merged := maps.Clone(o.fields)
	maps.Copy(merged, fields)
	return &MemoryObserver{rec: o.rec, fields: merged}
}

// Events returns a copy of all recorded events.
func (o *MemoryObserver) Events() []provisioning.Event {
	o.rec.mu.Lock()
	defer o.rec.mu.Unlock()
	return append([]provisioning.Event(nil), o.rec.events...)
}

// EventsOfType returns the recorded events of one type.
func (o *MemoryObserver) EventsOfType(t provisioning.EventType) []provisioning.Event {
	var out []provisioning.Event
	for _, e := range o.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Messages returns a copy of all recorded Printf messages.
func (o *MemoryObserver) Messages() []string {
	o.rec.mu.Lock()
	defer o.rec.mu.Unlock()
	return append([]string(nil), o.rec.messages...)
}
