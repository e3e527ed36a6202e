package log

import (
	"time"

	"github.com/treewatch/treewatch-go/pkg/subscription"
)

// Event represents an observation log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ListenerID uniquely identifies the listener (UUID).
	ListenerID string `cbor:"2,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// SessionID is the repository session (populated once logged in).
	SessionID string `cbor:"5,keyasint,omitempty"`

	// Member is the cluster member that captured the event.
	Member string `cbor:"6,keyasint,omitempty"`

	// Batch numbers the delivered batch (0 outside dispatch).
	Batch uint64 `cbor:"7,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	StateChange *StateChangeEvent `cbor:"10,keyasint,omitempty"` // Lifecycle transitions
	Change      *ChangeEvent      `cbor:"11,keyasint,omitempty"` // Offered changes
	Error       *ErrorEventData   `cbor:"12,keyasint,omitempty"` // Errors at any layer
}

// Layer indicates which component captured the event.
type Layer uint8

const (
	// LayerLifecycle is the listener registration lifecycle.
	LayerLifecycle Layer = 0
	// LayerDispatch is the per-batch event dispatcher.
	LayerDispatch Layer = 1
	// LayerFeed is the change feed delivering events.
	LayerFeed Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerLifecycle:
		return "LIFECYCLE"
	case LayerDispatch:
		return "DISPATCH"
	case LayerFeed:
		return "FEED"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryState indicates a state change.
	CategoryState Category = 0
	// CategoryChange indicates a change offered to or published by a component.
	CategoryChange Category = 1
	// CategoryError indicates an error event.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryState:
		return "STATE"
	case CategoryChange:
		return "CHANGE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent captures listener, session and registration lifecycle events.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	// StateEntityListener indicates a listener state change.
	StateEntityListener StateEntity = 0
	// StateEntitySession indicates a repository session state change.
	StateEntitySession StateEntity = 1
	// StateEntityRegistration indicates a feed registration state change.
	StateEntityRegistration StateEntity = 2
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityListener:
		return "LISTENER"
	case StateEntitySession:
		return "SESSION"
	case StateEntityRegistration:
		return "REGISTRATION"
	default:
		return "UNKNOWN"
	}
}

// ChangeEvent captures a single change and what was decided about it.
type ChangeEvent struct {
	// Kind is the change kind.
	Kind subscription.Kind `cbor:"1,keyasint"`

	// Path is the affected location.
	Path string `cbor:"2,keyasint"`

	// External is true when another cluster member produced the change.
	External bool `cbor:"3,keyasint,omitempty"`

	// Decision records the outcome for this change.
	Decision Decision `cbor:"4,keyasint"`

	// Index is the position of the change inside its batch.
	Index int `cbor:"5,keyasint,omitempty"`
}

// Decision is the outcome of offering a change to a component.
type Decision uint8

const (
	// DecisionDispatched means a handling action was invoked.
	DecisionDispatched Decision = 0
	// DecisionIgnored means the kind has no handling action.
	DecisionIgnored Decision = 1
	// DecisionAborted means the change ended the batch (origin filter).
	DecisionAborted Decision = 2
	// DecisionSkipped means the change was external and skipped on its own.
	DecisionSkipped Decision = 3
	// DecisionPublished means a feed accepted the change for delivery.
	DecisionPublished Decision = 4
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case DecisionDispatched:
		return "DISPATCHED"
	case DecisionIgnored:
		return "IGNORED"
	case DecisionAborted:
		return "ABORTED"
	case DecisionSkipped:
		return "SKIPPED"
	case DecisionPublished:
		return "PUBLISHED"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}
