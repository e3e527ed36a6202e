// Package commands implements the treewatch-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/treewatch/treewatch-go/pkg/log"
	"github.com/treewatch/treewatch-go/pkg/subscription"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Layer    *log.Layer
	Category *log.Category
	Decision *log.Decision
}

// filter converts the view criteria into a reader filter.
func (f ViewFilter) filter() log.Filter {
	return log.Filter{
		Layer:    f.Layer,
		Category: f.Category,
		Decision: f.Decision,
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [listener:id] LAYER Type
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	listenerID := shortenID(event.ListenerID)

	var typeLabel string
	switch {
	case event.Change != nil:
		typeLabel = event.Change.Decision.String()
	case event.StateChange != nil:
		typeLabel = "State"
	case event.Error != nil:
		typeLabel = "Error"
	default:
		typeLabel = "Unknown"
	}

	fmt.Fprintf(w, "%s [listener:%s] %s %s", ts, listenerID, event.Layer.String(), typeLabel)
	if event.Member != "" {
		fmt.Fprintf(w, " @%s", event.Member)
	}
	fmt.Fprintln(w)

	switch {
	case event.Change != nil:
		formatChangeDetails(w, event.Batch, event.Change)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenID returns the first 8 characters of an ID, or "-" when empty.
func shortenID(id string) string {
	if id == "" {
		return "-"
	}
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// formatChangeDetails writes change-specific details.
func formatChangeDetails(w io.Writer, batch uint64, c *log.ChangeEvent) {
	fmt.Fprintf(w, "  %s %s\n", c.Kind.String(), c.Path)
	if batch > 0 {
		fmt.Fprintf(w, "  Batch: %d  Index: %d\n", batch, c.Index)
	}
	if c.External {
		fmt.Fprintln(w, "  Origin: external")
	}
}

// formatStateChangeDetails writes state change details.
func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	fmt.Fprintf(w, "  Entity: %s\n", sc.Entity.String())
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

// formatErrorDetails writes error details.
func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", err.Layer.String())
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// ParseLayerFlag parses a layer string from command-line flag (case-insensitive).
func ParseLayerFlag(s string) (log.Layer, error) {
	return parseLayer(s)
}

func parseLayer(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "lifecycle":
		return log.LayerLifecycle, nil
	case "dispatch":
		return log.LayerDispatch, nil
	case "feed":
		return log.LayerFeed, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be lifecycle, dispatch, or feed)", s)
	}
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	return parseCategory(s)
}

func parseCategory(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "state":
		return log.CategoryState, nil
	case "change":
		return log.CategoryChange, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be state, change, or error)", s)
	}
}

// ParseDecisionFlag parses a decision string from command-line flag (case-insensitive).
func ParseDecisionFlag(s string) (log.Decision, error) {
	return parseDecision(s)
}

func parseDecision(s string) (log.Decision, error) {
	want := strings.ToUpper(s)
	for _, d := range allDecisions {
		if d.String() == want {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid decision: %s (must be dispatched, ignored, aborted, skipped, or published)", s)
}

var allDecisions = []log.Decision{
	log.DecisionDispatched,
	log.DecisionIgnored,
	log.DecisionAborted,
	log.DecisionSkipped,
	log.DecisionPublished,
}

func parseKind(s string) (subscription.Kind, error) {
	return subscription.ParseKind(s)
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter.filter())
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}

	return nil
}
