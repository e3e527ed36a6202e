package observation

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/treewatch/treewatch-go/pkg/log"
	"github.com/treewatch/treewatch-go/pkg/subscription"
)

// observer fans listener activity out to the operational and observation loggers.
type observer struct {
	listenerID string
	member     string
	logger     *slog.Logger
	capture    log.Logger
	sessionID  atomic.Pointer[string]
}

func newObserver(listenerID string, cfg Config) *observer {
	return &observer{
		listenerID: listenerID,
		member:     cfg.Member,
		logger:     cfg.Logger,
		capture:    cfg.ObservationLogger,
	}
}

func (o *observer) setSession(id string) {
	if id == "" {
		o.sessionID.Store(nil)
		return
	}
	o.sessionID.Store(&id)
}

func (o *observer) session() string {
	if p := o.sessionID.Load(); p != nil {
		return *p
	}
	return ""
}

func (o *observer) debugLog(msg string, args ...any) {
	if o.logger != nil {
		o.logger.Debug(msg, args...)
	}
}

func (o *observer) infoLog(msg string, args ...any) {
	if o.logger != nil {
		o.logger.Info(msg, args...)
	}
}

func (o *observer) errorLog(msg string, args ...any) {
	if o.logger != nil {
		o.logger.Error(msg, args...)
	}
}

func (o *observer) event(layer log.Layer, category log.Category, batch uint64) log.Event {
	return log.Event{
		Timestamp:  time.Now(),
		ListenerID: o.listenerID,
		Layer:      layer,
		Category:   category,
		SessionID:  o.session(),
		Member:     o.member,
		Batch:      batch,
	}
}

func (o *observer) logStateChange(entity log.StateEntity, oldState, newState, reason string) {
	if o.capture == nil {
		return
	}
	e := o.event(log.LayerLifecycle, log.CategoryState, 0)
	e.StateChange = &log.StateChangeEvent{
		Entity:   entity,
		OldState: oldState,
		NewState: newState,
		Reason:   reason,
	}
	o.capture.Log(e)
}

func (o *observer) logChange(batch uint64, index int, ev subscription.Event, decision log.Decision) {
	if o.capture == nil {
		return
	}
	e := o.event(log.LayerDispatch, log.CategoryChange, batch)
	e.Change = &log.ChangeEvent{
		Kind:     ev.Kind,
		Path:     ev.Path,
		External: ev.External,
		Decision: decision,
		Index:    index,
	}
	o.capture.Log(e)
}

func (o *observer) logError(layer log.Layer, batch uint64, err error, context string) {
	o.errorLog(context, "error", err, "batch", batch)
	if o.capture == nil {
		return
	}
	e := o.event(layer, log.CategoryError, batch)
	e.Error = &log.ErrorEventData{
		Layer:   layer,
		Message: err.Error(),
		Context: context,
	}
	o.capture.Log(e)
}
