package observation

import (
	"context"

	"github.com/treewatch/treewatch-go/pkg/subscription"
)

// Handle identifies a feed registration. The zero Handle is never valid.
type Handle string

// Repository opens sessions on the underlying store using the service identity
// it was configured with.
type Repository interface {
	Login(ctx context.Context) (Session, error)
}

// Session is an open repository session.
type Session interface {
	// ID identifies the session; feeds use it for local-echo suppression.
	ID() string

	// Feed returns the change feed of the session's workspace.
	Feed() (Feed, error)

	// Logout releases the session.
	Logout() error
}

// Feed delivers change batches to registered listeners.
type Feed interface {
	// Subscribe registers l for changes selected by desc.
	Subscribe(ctx context.Context, desc subscription.Descriptor, l EventListener) (Handle, error)

	// Unsubscribe removes a registration. Unknown or already removed handles
	// are a no-op.
	Unsubscribe(ctx context.Context, h Handle) error
}

// EventListener receives change batches from a Feed. Feeds may call OnEvents
// concurrently.
type EventListener interface {
	OnEvents(batch subscription.Iterator)
}

// Handler performs the handling actions for dispatched changes.
type Handler interface {
	EntityAdded(path string)
	PropertyAdded(path string)
}

// HandlerFuncs adapts plain functions to Handler. Nil fields are skipped.
type HandlerFuncs struct {
	OnEntityAdded   func(path string)
	OnPropertyAdded func(path string)
}

// EntityAdded calls OnEntityAdded.
func (h HandlerFuncs) EntityAdded(path string) {
	if h.OnEntityAdded != nil {
		h.OnEntityAdded(path)
	}
}

// PropertyAdded calls OnPropertyAdded.
func (h HandlerFuncs) PropertyAdded(path string) {
	if h.OnPropertyAdded != nil {
		h.OnPropertyAdded(path)
	}
}

// Compile-time checks.
var (
	_ Handler       = HandlerFuncs{}
	_ EventListener = (*Dispatcher)(nil)
)
