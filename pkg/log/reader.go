package log

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/treewatch/treewatch-go/pkg/subscription"
)

// Filter specifies criteria for filtering log events.
// Empty/nil fields match all events for that criterion.
type Filter struct {
	// ListenerID filters by listener ID prefix.
	ListenerID string

	// Layer filters by layer.
	Layer *Layer

	// Category filters by event category.
	Category *Category

	// Kind filters change events by kind. Non-change events never match.
	Kind *subscription.Kind

	// Decision filters change events by decision. Non-change events never match.
	Decision *Decision

	// PathPrefix filters change events whose path starts with the prefix.
	PathPrefix string

	// TimeStart filters events at or after this time.
	TimeStart *time.Time

	// TimeEnd filters events before this time.
	TimeEnd *time.Time

	// Member filters by cluster member.
	Member string
}

// Matches returns true if the event matches all filter criteria.
func (f *Filter) Matches(event Event) bool {
	if f.ListenerID != "" && !strings.HasPrefix(event.ListenerID, f.ListenerID) {
		return false
	}
	if f.Layer != nil && event.Layer != *f.Layer {
		return false
	}
	if f.Category != nil && event.Category != *f.Category {
		return false
	}
	if f.Kind != nil && (event.Change == nil || event.Change.Kind != *f.Kind) {
		return false
	}
	if f.Decision != nil && (event.Change == nil || event.Change.Decision != *f.Decision) {
		return false
	}
	if f.PathPrefix != "" && (event.Change == nil || !strings.HasPrefix(event.Change.Path, f.PathPrefix)) {
		return false
	}
	if f.TimeStart != nil && event.Timestamp.Before(*f.TimeStart) {
		return false
	}
	if f.TimeEnd != nil && !event.Timestamp.Before(*f.TimeEnd) {
		return false
	}
	if f.Member != "" && event.Member != f.Member {
		return false
	}
	return true
}

// Reader reads observation events from a CBOR-encoded file.
// It provides an iterator interface for streaming large files.
type Reader struct {
	file    *os.File
	decoder *cbor.Decoder
	filter  Filter
}

// NewReader creates a Reader that reads all events from the specified log file.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader creates a Reader that reads events matching the filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{
		file:    f,
		decoder: NewDecoder(f),
		filter:  filter,
	}, nil
}

// Next returns the next event that matches the filter.
// Returns io.EOF when no more events are available.
func (r *Reader) Next() (Event, error) {
	for {
		var event Event
		if err := r.decoder.Decode(&event); err != nil {
			if err == io.EOF {
				return Event{}, io.EOF
			}
			return Event{}, err
		}

		if r.filter.Matches(event) {
			return event, nil
		}
	}
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}
