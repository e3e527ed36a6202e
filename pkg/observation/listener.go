package observation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/treewatch/treewatch-go/pkg/log"
	"github.com/treewatch/treewatch-go/pkg/subscription"
)

// Listener owns one change-feed registration: the session it was made through,
// the feed and the registration handle.
type Listener struct {
	mu sync.Mutex

	id         string
	repo       Repository
	desc       subscription.Descriptor
	dispatcher *Dispatcher
	obs        *observer

	state   State
	session Session
	feed    Feed
	handle  Handle
}

// NewListener creates an unregistered listener for desc. Changes that pass
// dispatch are handed to handler.
func NewListener(repo Repository, desc subscription.Descriptor, handler Handler, cfg Config) (*Listener, error) {
	if repo == nil {
		return nil, fmt.Errorf("%w: nil repository", ErrInvalidConfig)
	}
	if handler == nil {
		return nil, fmt.Errorf("%w: nil handler", ErrInvalidConfig)
	}
	if err := desc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	id := cfg.ListenerID
	if id == "" {
		id = uuid.NewString()
	}
	obs := newObserver(id, cfg)

	return &Listener{
		id:         id,
		repo:       repo,
		desc:       desc,
		dispatcher: newDispatcher(handler, cfg.OriginPolicy, obs),
		obs:        obs,
		state:      StateUnregistered,
	}, nil
}

// ID returns the listener ID.
func (l *Listener) ID() string {
	return l.id
}

// Descriptor returns the registered selection.
func (l *Listener) Descriptor() subscription.Descriptor {
	return l.desc
}

// Dispatcher returns the dispatcher the listener registers with the feed.
func (l *Listener) Dispatcher() *Dispatcher {
	return l.dispatcher
}

// Stats returns the dispatch counters.
func (l *Listener) Stats() Stats {
	return l.dispatcher.Stats()
}

// State returns the current registration state.
func (l *Listener) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Activate opens a session, obtains its feed and registers the descriptor.
// On failure the listener stays unregistered and any session it opened is
// released again.
func (l *Listener) Activate(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == StateActive {
		return ErrAlreadyActive
	}

	l.obs.infoLog("register event listener",
		"listener", l.id,
		"path", l.desc.RootPath(),
		"events", l.desc.Mask().String(),
		"deep", l.desc.Deep())

	session, err := l.repo.Login(ctx)
	if err == nil && session == nil {
		err = errors.New("no session returned")
	}
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrAuth, err)
		l.obs.logError(log.LayerLifecycle, 0, err, "login")
		return err
	}
	l.obs.setSession(session.ID())
	l.obs.logStateChange(log.StateEntitySession, "", "OPEN", "")

	feed, err := session.Feed()
	if err != nil {
		return l.abortActivation(session, fmt.Errorf("%w: obtain feed: %w", ErrSubscription, err))
	}

	handle, err := feed.Subscribe(ctx, l.desc, l.dispatcher)
	if err != nil {
		return l.abortActivation(session, fmt.Errorf("%w: %w", ErrSubscription, err))
	}
	l.obs.logStateChange(log.StateEntityRegistration, "", "REGISTERED", string(handle))

	l.session = session
	l.feed = feed
	l.handle = handle
	l.setState(StateActive, "activated")
	return nil
}

// abortActivation releases a session opened by a failed Activate.
func (l *Listener) abortActivation(session Session, cause error) error {
	l.obs.logError(log.LayerLifecycle, 0, cause, "subscribe")

	err := cause
	if lerr := logout(session); lerr != nil {
		lerr = fmt.Errorf("%w: %w", ErrLogout, lerr)
		l.obs.logError(log.LayerLifecycle, 0, lerr, "logout")
		err = errors.Join(cause, lerr)
	}
	l.obs.logStateChange(log.StateEntitySession, "OPEN", "CLOSED", "activation failed")
	l.obs.setSession("")
	return err
}

// Deactivate removes the registration and then releases the session. The
// session is released even when unsubscribing fails; both errors are returned
// after cleanup. Deactivating an unregistered listener is a no-op.
func (l *Listener) Deactivate(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateActive {
		return nil
	}

	l.obs.infoLog("remove event listener", "listener", l.id)

	var errs []error
	if err := unsubscribe(ctx, l.feed, l.handle); err != nil {
		err = fmt.Errorf("%w: %w", ErrUnsubscribe, err)
		l.obs.logError(log.LayerLifecycle, 0, err, "unsubscribe")
		errs = append(errs, err)
	} else {
		l.obs.logStateChange(log.StateEntityRegistration, "REGISTERED", "UNREGISTERED", string(l.handle))
	}

	if err := logout(l.session); err != nil {
		err = fmt.Errorf("%w: %w", ErrLogout, err)
		l.obs.logError(log.LayerLifecycle, 0, err, "logout")
		errs = append(errs, err)
	}
	l.obs.logStateChange(log.StateEntitySession, "OPEN", "CLOSED", "")

	l.session = nil
	l.feed = nil
	l.handle = ""

	reason := "deactivated"
	if len(errs) > 0 {
		reason = "deactivated with errors"
	}
	l.setState(StateUnregistered, reason)
	l.obs.setSession("")

	return errors.Join(errs...)
}

func (l *Listener) setState(s State, reason string) {
	old := l.state
	l.state = s
	l.obs.debugLog("listener state change",
		"listener", l.id, "from", old.String(), "to", s.String(), "reason", reason)
	l.obs.logStateChange(log.StateEntityListener, old.String(), s.String(), reason)
}

// unsubscribe converts a panicking feed into an error so that the session is
// still released.
func unsubscribe(ctx context.Context, feed Feed, h Handle) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return feed.Unsubscribe(ctx, h)
}

func logout(session Session) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return session.Logout()
}
