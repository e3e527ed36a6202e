package subscription

import (
	"io"
	"time"
)

// Event is a single change notification.
type Event struct {
	// Kind is the change this event reports.
	Kind Kind

	// Path is the location of the affected entity or property.
	Path string

	// External is true when the change was generated by a different cluster
	// member than the one observing it.
	External bool

	// EntityID identifies the affected entity, if the feed knows it.
	EntityID string

	// Type is the schema type of the affected entity, if known.
	Type string

	// UserID identifies the session user that made the change.
	UserID string

	// Date is when the change was made.
	Date time.Time

	// Info carries kind-specific details, such as "srcPath" and "destPath"
	// for moves.
	Info map[string]string
}

// Iterator yields the events of one batch in delivery order.
// Next returns io.EOF after the last event; any other error means the batch
// could not be read further. An Iterator cannot be restarted.
type Iterator interface {
	Next() (Event, error)
}

// sliceIterator iterates over an in-memory batch, optionally ending in an error.
type sliceIterator struct {
	events []Event
	pos    int
	err    error
}

// NewBatch returns an iterator over events.
func NewBatch(events ...Event) Iterator {
	return &sliceIterator{events: events}
}

// FailingBatch returns an iterator that yields events and then err instead of
// io.EOF.
func FailingBatch(err error, events ...Event) Iterator {
	return &sliceIterator{events: events, err: err}
}

// Next returns the next event.
func (it *sliceIterator) Next() (Event, error) {
	if it.pos >= len(it.events) {
		if it.err != nil {
			return Event{}, it.err
		}
		return Event{}, io.EOF
	}
	e := it.events[it.pos]
	it.pos++
	return e, nil
}

// Collect drains an iterator. It returns the events read before the first error;
// io.EOF is not reported as an error.
func Collect(it Iterator) ([]Event, error) {
	var out []Event
	for {
		e, err := it.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, e)
	}
}
