package log

import "sync"

// Logger is the interface applications implement to receive observation events.
// Pass nil or NoopLogger to disable capture.
type Logger interface {
	// Log records an event. Implementations must be thread-safe.
	// The event should be processed quickly or queued; blocking delays dispatch.
	Log(event Event)
}

// NoopLogger discards all events. Use when capture is disabled.
// NoopLogger is safe for concurrent use and usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// Recorder keeps events in memory. It is mainly useful in tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Log appends the event.
func (r *Recorder) Log(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Compile-time interface satisfaction check.
var (
	_ Logger = NoopLogger{}
	_ Logger = (*Recorder)(nil)
)
