package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/treewatch/treewatch-go/pkg/log"
	"github.com/treewatch/treewatch-go/pkg/subscription"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents      int
	EventsByLayer    map[log.Layer]int
	EventsByCategory map[log.Category]int
	ChangesByKind    map[subscription.Kind]int
	ChangesByOutcome map[log.Decision]int
	Listeners        map[string]*ListenerStats
	Errors           int
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// ListenerStats holds statistics for a single listener.
type ListenerStats struct {
	FirstSeen      time.Time
	LastSeen       time.Time
	Events         int
	Member         string
	Batches        map[uint64]bool
	AbortedBatches int
	Dispatched     int
}

func newStats() *Stats {
	return &Stats{
		EventsByLayer:    make(map[log.Layer]int),
		EventsByCategory: make(map[log.Category]int),
		ChangesByKind:    make(map[subscription.Kind]int),
		ChangesByOutcome: make(map[log.Decision]int),
		Listeners:        make(map[string]*ListenerStats),
	}
}

// add accounts for one event.
func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByLayer[event.Layer]++
	s.EventsByCategory[event.Category]++

	// Track time range
	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	if event.Change != nil {
		s.ChangesByKind[event.Change.Kind]++
		s.ChangesByOutcome[event.Change.Decision]++
	}
	if event.Error != nil {
		s.Errors++
	}

	// Feed events are not tied to a listener.
	if event.ListenerID == "" {
		return
	}
	ls, ok := s.Listeners[event.ListenerID]
	if !ok {
		ls = &ListenerStats{
			FirstSeen: event.Timestamp,
			LastSeen:  event.Timestamp,
			Batches:   make(map[uint64]bool),
		}
		s.Listeners[event.ListenerID] = ls
	}
	ls.Events++
	if event.Timestamp.After(ls.LastSeen) {
		ls.LastSeen = event.Timestamp
	}
	if event.Member != "" && ls.Member == "" {
		ls.Member = event.Member
	}
	if event.Batch > 0 {
		ls.Batches[event.Batch] = true
	}
	if c := event.Change; c != nil {
		switch c.Decision {
		case log.DecisionAborted:
			ls.AbortedBatches++
		case log.DecisionDispatched:
			ls.Dispatched++
		}
	}
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := newStats()
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== treewatch Observation Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerLifecycle, log.LayerDispatch, log.LayerFeed} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-18s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryState, log.CategoryChange, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-18s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if len(stats.ChangesByKind) > 0 {
		fmt.Fprintln(w, "Changes by Kind:")
		for _, k := range subscription.AllKinds {
			if count := stats.ChangesByKind[k]; count > 0 {
				fmt.Fprintf(w, "  %-18s %d\n", k.String()+":", count)
			}
		}
		fmt.Fprintln(w)

		fmt.Fprintln(w, "Changes by Decision:")
		for _, d := range allDecisions {
			if count := stats.ChangesByOutcome[d]; count > 0 {
				fmt.Fprintf(w, "  %-18s %d\n", d.String()+":", count)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Listeners: %d\n", len(stats.Listeners))
	if len(stats.Listeners) > 0 {
		// Sort by first seen time
		type listenerInfo struct {
			id    string
			stats *ListenerStats
		}
		listeners := make([]listenerInfo, 0, len(stats.Listeners))
		for id, ls := range stats.Listeners {
			listeners = append(listeners, listenerInfo{id, ls})
		}
		sort.Slice(listeners, func(i, j int) bool {
			return listeners[i].stats.FirstSeen.Before(listeners[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, l := range listeners {
			duration := l.stats.LastSeen.Sub(l.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", shortenID(l.id), l.stats.Events, duration)
			if l.stats.Member != "" {
				fmt.Fprintf(w, "           Member: %s\n", l.stats.Member)
			}
			fmt.Fprintf(w, "           Batches: %d (aborted: %d), dispatched: %d\n",
				len(l.stats.Batches), l.stats.AbortedBatches, l.stats.Dispatched)
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
