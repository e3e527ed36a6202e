package memfeed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/treewatch/treewatch-go/pkg/log"
	"github.com/treewatch/treewatch-go/pkg/observation"
	"github.com/treewatch/treewatch-go/pkg/subscription"
)

// Record is a published change as kept in the journal.
type Record struct {
	// Seq numbers records in publish order, starting at 1.
	Seq uint64

	// Origin is the member the change was made on.
	Origin string

	// SessionID is the session that made the change, if known.
	SessionID string

	Event subscription.Event
}

// registration is one Subscribe call.
type registration struct {
	handle    observation.Handle
	member    string
	sessionID string
	desc      subscription.Descriptor
	listener  observation.EventListener
}

// Cluster is a set of members sharing one journal and one feed registry.
type Cluster struct {
	mu sync.RWMutex

	config Config
	types  *TypeRegistry

	members  map[string]*Repository
	order    []string
	sessions map[string]*Session

	// Active registrations by handle
	registrations map[observation.Handle]*registration

	journal []Record
	seq     uint64
}

// NewCluster creates a cluster with the named members.
func NewCluster(cfg Config, members ...string) (*Cluster, error) {
	if cfg.ServiceUser == "" {
		cfg.ServiceUser = DefaultServiceUser
	}
	if cfg.MaxRegistrations < 0 {
		return nil, fmt.Errorf("negative registration limit %d", cfg.MaxRegistrations)
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: no members", ErrUnknownMember)
	}

	c := &Cluster{
		config:        cfg,
		types:         NewTypeRegistry(),
		members:       make(map[string]*Repository, len(members)),
		sessions:      make(map[string]*Session),
		registrations: make(map[observation.Handle]*registration),
	}
	for _, name := range members {
		if name == "" {
			return nil, fmt.Errorf("%w: empty member name", ErrUnknownMember)
		}
		if _, dup := c.members[name]; dup {
			return nil, fmt.Errorf("duplicate member %q", name)
		}
		c.members[name] = &Repository{cluster: c, member: name, user: cfg.ServiceUser}
		c.order = append(c.order, name)
	}
	return c, nil
}

// Member returns the repository of the named member.
func (c *Cluster) Member(name string) (*Repository, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	repo, ok := c.members[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMember, name)
	}
	return repo, nil
}

// Members returns the member names in creation order.
func (c *Cluster) Members() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.order...)
}

// Types returns the type registry used for type-restricted registrations.
func (c *Cluster) Types() *TypeRegistry {
	return c.types
}

// Publish appends changes to the journal and delivers them as one batch to
// each registration that selects at least one of them. Delivery happens on
// the calling goroutine. It returns the number of batches delivered.
func (c *Cluster) Publish(ctx context.Context, origin, sessionID string, changes ...subscription.Event) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	for i, ev := range changes {
		if !ev.Kind.Valid() {
			return 0, fmt.Errorf("change %d: %w: %d", i, subscription.ErrUnknownKind, ev.Kind)
		}
		if ev.Kind == subscription.KindPersist {
			continue
		}
		if err := subscription.ValidatePath(ev.Path); err != nil {
			return 0, fmt.Errorf("change %d: %w", i, err)
		}
	}

	now := time.Now()

	c.mu.Lock()
	if _, ok := c.members[origin]; !ok {
		c.mu.Unlock()
		return 0, fmt.Errorf("%w: %q", ErrUnknownOrigin, origin)
	}

	user := ""
	if s, ok := c.sessions[sessionID]; ok {
		user = s.user
	}

	published := make([]subscription.Event, len(changes))
	for i, ev := range changes {
		if ev.Date.IsZero() {
			ev.Date = now
		}
		if ev.UserID == "" {
			ev.UserID = user
		}
		ev.External = false
		if ev.Kind != subscription.KindPersist {
			ev.Path = subscription.CleanPath(ev.Path)
		}
		c.seq++
		c.journal = append(c.journal, Record{
			Seq:       c.seq,
			Origin:    origin,
			SessionID: sessionID,
			Event:     ev,
		})
		published[i] = ev
	}

	type delivery struct {
		reg    *registration
		events []subscription.Event
	}
	var deliveries []delivery
	for _, reg := range c.registrations {
		var batch []subscription.Event
		for _, ev := range published {
			if !c.selects(reg, origin, sessionID, ev) {
				continue
			}
			ev.External = reg.member != origin
			batch = append(batch, ev)
		}
		if len(batch) > 0 {
			deliveries = append(deliveries, delivery{reg: reg, events: batch})
		}
	}
	c.mu.Unlock()

	for _, ev := range published {
		c.logPublish(origin, sessionID, ev)
	}

	// Deliver outside lock so listeners may call back into the cluster.
	for _, d := range deliveries {
		c.debugLog("deliver batch",
			"handle", d.reg.handle, "member", d.reg.member, "events", len(d.events))
		d.reg.listener.OnEvents(subscription.NewBatch(d.events...))
	}

	return len(deliveries), nil
}

// selects reports whether reg receives ev. Must be called with c.mu held.
func (c *Cluster) selects(reg *registration, origin, sessionID string, ev subscription.Event) bool {
	desc := reg.desc
	if !desc.Mask().Has(ev.Kind) {
		return false
	}

	if ev.Kind != subscription.KindPersist && !desc.MatchesPath(ev.Path) {
		return false
	}

	if desc.NoLocal() && sessionID != "" && reg.member == origin && reg.sessionID == sessionID {
		return false
	}
	if !desc.AllowsEntity(ev.EntityID) {
		return false
	}
	if types := desc.Types(); types != nil && !c.types.MatchesAny(ev.Type, types) {
		return false
	}
	return true
}

// Journal returns a snapshot of all published changes in publish order.
func (c *Cluster) Journal() []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Record(nil), c.journal...)
}

// Count returns the number of active registrations across all members.
func (c *Cluster) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.registrations)
}

// ClearAll removes all registrations (e.g., on repository restart).
func (c *Cluster) ClearAll() {
	c.mu.Lock()
	handles := make([]observation.Handle, 0, len(c.registrations))
	for h := range c.registrations {
		handles = append(handles, h)
	}
	c.registrations = make(map[observation.Handle]*registration)
	c.mu.Unlock()

	for _, h := range handles {
		c.logRegistration(h, "REGISTERED", "UNREGISTERED", "cleared")
	}
}

func (c *Cluster) register(reg *registration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if limit := c.config.MaxRegistrations; limit > 0 {
		n := 0
		for _, r := range c.registrations {
			if r.member == reg.member {
				n++
			}
		}
		if n >= limit {
			return ErrResourceExhausted
		}
	}
	c.registrations[reg.handle] = reg
	return nil
}

func (c *Cluster) unregister(h observation.Handle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.registrations[h]; !ok {
		return false
	}
	delete(c.registrations, h)
	return true
}

// unregisterSession removes the registrations made through a session.
func (c *Cluster) unregisterSession(sessionID string) []observation.Handle {
	c.mu.Lock()
	defer c.mu.Unlock()

	var removed []observation.Handle
	for h, r := range c.registrations {
		if r.sessionID == sessionID {
			delete(c.registrations, h)
			removed = append(removed, h)
		}
	}
	delete(c.sessions, sessionID)
	return removed
}

func (c *Cluster) debugLog(msg string, args ...any) {
	if c.config.Logger != nil {
		c.config.Logger.Debug(msg, args...)
	}
}

func (c *Cluster) logRegistration(h observation.Handle, oldState, newState, reason string) {
	if c.config.ObservationLogger == nil {
		return
	}
	c.config.ObservationLogger.Log(log.Event{
		Timestamp: time.Now(),
		Layer:     log.LayerFeed,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityRegistration,
			OldState: oldState,
			NewState: newState,
			Reason:   reason + " " + string(h),
		},
	})
}

func (c *Cluster) logPublish(origin, sessionID string, ev subscription.Event) {
	if c.config.ObservationLogger == nil {
		return
	}
	c.config.ObservationLogger.Log(log.Event{
		Timestamp: time.Now(),
		Layer:     log.LayerFeed,
		Category:  log.CategoryChange,
		SessionID: sessionID,
		Member:    origin,
		Change: &log.ChangeEvent{
			Kind:     ev.Kind,
			Path:     ev.Path,
			Decision: log.DecisionPublished,
		},
	})
}
