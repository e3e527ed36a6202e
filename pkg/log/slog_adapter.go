package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes observation events to an slog.Logger.
// Useful for development when you want to see listener decisions in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
// Error events are written at Error level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("listener_id", event.ListenerID),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	if event.SessionID != "" {
		attrs = append(attrs, slog.String("session_id", event.SessionID))
	}
	if event.Member != "" {
		attrs = append(attrs, slog.String("member", event.Member))
	}
	if event.Batch != 0 {
		attrs = append(attrs, slog.Uint64("batch", event.Batch))
	}

	level := slog.LevelDebug

	switch {
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("entity", event.StateChange.Entity.String()),
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Change != nil:
		attrs = append(attrs,
			slog.String("kind", event.Change.Kind.String()),
			slog.String("path", event.Change.Path),
			slog.Bool("external", event.Change.External),
			slog.String("decision", event.Change.Decision.String()),
			slog.Int("index", event.Change.Index),
		)
	case event.Error != nil:
		level = slog.LevelError
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
	}

	a.logger.LogAttrs(context.Background(), level, "observation", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
