package memfeed

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/treewatch/treewatch-go/pkg/observation"
	"github.com/treewatch/treewatch-go/pkg/subscription"
)

// Repository is the view of one cluster member.
type Repository struct {
	cluster *Cluster
	member  string
	user    string
}

// Member returns the member name.
func (r *Repository) Member() string {
	return r.member
}

// WithIdentity returns a copy of the repository that logs in as user.
func (r *Repository) WithIdentity(user string) *Repository {
	cp := *r
	cp.user = user
	return &cp
}

// Login opens a session with the repository's service identity.
func (r *Repository) Login(ctx context.Context) (observation.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !r.cluster.config.allows(r.user) {
		return nil, fmt.Errorf("%w: %q", ErrAuthFailed, r.user)
	}

	s := &Session{
		id:      uuid.NewString(),
		user:    r.user,
		member:  r.member,
		cluster: r.cluster,
	}

	r.cluster.mu.Lock()
	r.cluster.sessions[s.id] = s
	r.cluster.mu.Unlock()

	r.cluster.debugLog("session opened", "member", r.member, "session", s.id, "user", r.user)
	return s, nil
}

// Session is an open session on one member.
type Session struct {
	id      string
	user    string
	member  string
	cluster *Cluster

	mu     sync.Mutex
	closed bool
}

// ID returns the session ID.
func (s *Session) ID() string {
	return s.id
}

// User returns the identity the session was opened with.
func (s *Session) User() string {
	return s.user
}

// Feed returns the change feed of the session's member.
func (s *Session) Feed() (observation.Feed, error) {
	if s.isClosed() {
		return nil, ErrSessionClosed
	}
	return &Feed{session: s}, nil
}

// Logout closes the session and drops the registrations made through it.
func (s *Session) Logout() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.closed = true
	s.mu.Unlock()

	for _, h := range s.cluster.unregisterSession(s.id) {
		s.cluster.logRegistration(h, "REGISTERED", "UNREGISTERED", "logout")
	}
	s.cluster.debugLog("session closed", "member", s.member, "session", s.id)
	return nil
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Feed registers listeners on behalf of a session.
type Feed struct {
	session *Session
}

// Subscribe registers l for the changes selected by desc. The root path does
// not need to exist.
func (f *Feed) Subscribe(ctx context.Context, desc subscription.Descriptor, l observation.EventListener) (observation.Handle, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.session.isClosed() {
		return "", ErrSessionClosed
	}
	if l == nil {
		return "", ErrNilListener
	}
	if err := desc.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}

	reg := &registration{
		handle:    observation.Handle(uuid.NewString()),
		member:    f.session.member,
		sessionID: f.session.id,
		desc:      desc,
		listener:  l,
	}
	if err := f.session.cluster.register(reg); err != nil {
		return "", err
	}

	f.session.cluster.debugLog("listener registered",
		"member", reg.member, "handle", reg.handle, "path", desc.RootPath(), "events", desc.Mask().String())
	f.session.cluster.logRegistration(reg.handle, "", "REGISTERED", "subscribe")
	return reg.handle, nil
}

// Unsubscribe removes a registration. Unknown handles are a no-op.
func (f *Feed) Unsubscribe(ctx context.Context, h observation.Handle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.session.cluster.unregister(h) {
		f.session.cluster.logRegistration(h, "REGISTERED", "UNREGISTERED", "unsubscribe")
	}
	return nil
}

// Compile-time interface satisfaction checks.
var (
	_ observation.Repository = (*Repository)(nil)
	_ observation.Session    = (*Session)(nil)
	_ observation.Feed       = (*Feed)(nil)
)
