package observation

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/treewatch/treewatch-go/pkg/log"
)

// Listener and dispatch errors.
var (
	ErrAuth          = errors.New("repository login failed")
	ErrSubscription  = errors.New("subscription rejected")
	ErrUnsubscribe   = errors.New("unsubscribe failed")
	ErrLogout        = errors.New("session logout failed")
	ErrBatchRead     = errors.New("batch read failed")
	ErrHandlerPanic  = errors.New("handler panicked")
	ErrAlreadyActive = errors.New("listener already active")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// State is the registration state of a Listener.
type State uint8

const (
	// StateUnregistered - no session and no registration.
	StateUnregistered State = iota

	// StateActive - session open and descriptor registered.
	StateActive
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnregistered:
		return "UNREGISTERED"
	case StateActive:
		return "ACTIVE"
	default:
		return "UNKNOWN"
	}
}

// OriginPolicy selects how the Dispatcher treats changes made on another
// cluster member.
type OriginPolicy uint8

const (
	// OriginAbortBatch stops the remaining batch at the first external change.
	OriginAbortBatch OriginPolicy = iota

	// OriginSkipEvent skips external changes and keeps going.
	OriginSkipEvent

	// OriginProcessAll handles every change regardless of origin.
	OriginProcessAll
)

// String returns the policy name.
func (p OriginPolicy) String() string {
	switch p {
	case OriginAbortBatch:
		return "abort_batch"
	case OriginSkipEvent:
		return "skip_event"
	case OriginProcessAll:
		return "process_all"
	default:
		return "unknown"
	}
}

// ParseOriginPolicy parses a policy name as returned by String.
// The empty string selects OriginAbortBatch.
func ParseOriginPolicy(s string) (OriginPolicy, error) {
	switch s {
	case "", "abort_batch":
		return OriginAbortBatch, nil
	case "skip_event":
		return OriginSkipEvent, nil
	case "process_all":
		return OriginProcessAll, nil
	default:
		return 0, fmt.Errorf("%w: unknown origin policy %q", ErrInvalidConfig, s)
	}
}

// Config configures a Listener and its Dispatcher.
type Config struct {
	// ListenerID identifies the listener in logs. Generated if empty.
	ListenerID string

	// Member names the cluster member running the listener (logging only).
	Member string

	// OriginPolicy selects the handling of external changes.
	OriginPolicy OriginPolicy

	// Logger is the optional logger for operational output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// ObservationLogger receives structured lifecycle and dispatch events.
	// If nil, capture is disabled.
	ObservationLogger log.Logger
}

// DefaultConfig returns a Config with the cluster-safe defaults.
func DefaultConfig() Config {
	return Config{
		OriginPolicy: OriginAbortBatch,
	}
}

// Validate checks if the config is valid.
func (c *Config) Validate() error {
	if c.OriginPolicy > OriginProcessAll {
		return fmt.Errorf("%w: origin policy %d", ErrInvalidConfig, c.OriginPolicy)
	}
	return nil
}

// Stats counts dispatcher activity.
type Stats struct {
	Batches        uint64
	Events         uint64
	Dispatched     uint64
	Ignored        uint64
	Skipped        uint64
	AbortedBatches uint64
	Errors         uint64
}
