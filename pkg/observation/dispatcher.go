package observation

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/treewatch/treewatch-go/pkg/log"
	"github.com/treewatch/treewatch-go/pkg/subscription"
)

// Dispatcher classifies delivered changes and invokes handling actions.
// It is safe for concurrent use; its only mutable state is atomic counters.
type Dispatcher struct {
	handler Handler
	policy  OriginPolicy
	obs     *observer

	batches        atomic.Uint64
	events         atomic.Uint64
	dispatched     atomic.Uint64
	ignored        atomic.Uint64
	skipped        atomic.Uint64
	abortedBatches atomic.Uint64
	failures       atomic.Uint64
}

// NewDispatcher creates a dispatcher that is not bound to a Listener.
func NewDispatcher(handler Handler, cfg Config) (*Dispatcher, error) {
	if handler == nil {
		return nil, fmt.Errorf("%w: nil handler", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	id := cfg.ListenerID
	if id == "" {
		id = uuid.NewString()
	}
	return newDispatcher(handler, cfg.OriginPolicy, newObserver(id, cfg)), nil
}

func newDispatcher(handler Handler, policy OriginPolicy, obs *observer) *Dispatcher {
	return &Dispatcher{
		handler: handler,
		policy:  policy,
		obs:     obs,
	}
}

// OnEvents processes one batch in delivery order. It never panics; read
// errors and handler panics end the batch and are reported, not returned.
func (d *Dispatcher) OnEvents(batch subscription.Iterator) {
	n := d.batches.Add(1)

	defer func() {
		if r := recover(); r != nil {
			d.fail(n, fmt.Errorf("%w: %v", ErrHandlerPanic, r))
		}
	}()

	if batch == nil {
		d.fail(n, fmt.Errorf("%w: nil batch", ErrBatchRead))
		return
	}

	for index := 0; ; index++ {
		ev, err := batch.Next()
		if err == io.EOF {
			return
		}
		if err != nil {
			d.fail(n, fmt.Errorf("%w: %w", ErrBatchRead, err))
			return
		}
		d.events.Add(1)

		if ev.External {
			switch d.policy {
			case OriginAbortBatch:
				// Only the originating member handles this batch.
				d.abortedBatches.Add(1)
				d.obs.debugLog("batch aborted at external change",
					"batch", n, "index", index, "path", ev.Path)
				d.obs.logChange(n, index, ev, log.DecisionAborted)
				return
			case OriginSkipEvent:
				d.skipped.Add(1)
				d.obs.logChange(n, index, ev, log.DecisionSkipped)
				continue
			}
		}

		d.dispatch(n, index, ev)
	}
}

func (d *Dispatcher) dispatch(batch uint64, index int, ev subscription.Event) {
	switch ev.Kind {
	case subscription.KindEntityAdded:
		d.obs.infoLog("entity added", "path", ev.Path)
		d.handler.EntityAdded(ev.Path)
	case subscription.KindPropertyAdded:
		d.obs.infoLog("property added", "path", ev.Path)
		d.handler.PropertyAdded(ev.Path)
	default:
		d.ignored.Add(1)
		d.obs.logChange(batch, index, ev, log.DecisionIgnored)
		return
	}
	d.dispatched.Add(1)
	d.obs.logChange(batch, index, ev, log.DecisionDispatched)
}

func (d *Dispatcher) fail(batch uint64, err error) {
	d.failures.Add(1)
	d.obs.logError(log.LayerDispatch, batch, err, "error while treating events")
}

// Stats returns a snapshot of the dispatch counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Batches:        d.batches.Load(),
		Events:         d.events.Load(),
		Dispatched:     d.dispatched.Load(),
		Ignored:        d.ignored.Load(),
		Skipped:        d.skipped.Load(),
		AbortedBatches: d.abortedBatches.Load(),
		Errors:         d.failures.Load(),
	}
}

// Policy returns the origin policy in effect.
func (d *Dispatcher) Policy() OriginPolicy {
	return d.policy
}
