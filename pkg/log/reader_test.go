package log

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/treewatch/treewatch-go/pkg/subscription"
)

func createTestLogFile(t *testing.T, events []Event) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.tlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test log: %v", err)
	}

	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func TestReaderIteratesEvents(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), ListenerID: "listener-1", Layer: LayerLifecycle, Category: CategoryChange},
		{Timestamp: time.Now(), ListenerID: "listener-2", Layer: LayerDispatch, Category: CategoryChange},
		{Timestamp: time.Now(), ListenerID: "listener-3", Layer: LayerFeed, Category: CategoryState},
	}

	path := createTestLogFile(t, events)

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}

	if len(read) != 3 {
		t.Fatalf("got %d events, want 3", len(read))
	}

	// Verify order
	if read[0].ListenerID != "listener-1" {
		t.Errorf("first event ListenerID = %q, want %q", read[0].ListenerID, "listener-1")
	}
	if read[2].ListenerID != "listener-3" {
		t.Errorf("last event ListenerID = %q, want %q", read[2].ListenerID, "listener-3")
	}
}

func TestReaderHandlesEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.tlog")

	// Create empty file
	logger, _ := NewFileLogger(path)
	logger.Close()

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	event, err := reader.Next()
	if err != io.EOF {
		t.Errorf("expected io.EOF, got err=%v, event=%+v", err, event)
	}
}

func TestReaderHandlesTruncatedFile(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), ListenerID: "listener-1", Layer: LayerLifecycle, Category: CategoryChange},
	}

	path := createTestLogFile(t, events)

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	// Read first event
	_, err = reader.Next()
	if err != nil {
		t.Fatalf("first Next failed: %v", err)
	}

	// Second read should return EOF
	_, err = reader.Next()
	if err != io.EOF {
		t.Errorf("expected io.EOF after all events, got %v", err)
	}
}

func TestReaderFilterByListenerID(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), ListenerID: "listener-A", Layer: LayerLifecycle, Category: CategoryChange},
		{Timestamp: time.Now(), ListenerID: "listener-B", Layer: LayerDispatch, Category: CategoryChange},
		{Timestamp: time.Now(), ListenerID: "listener-A", Layer: LayerFeed, Category: CategoryState},
		{Timestamp: time.Now(), ListenerID: "listener-C", Layer: LayerLifecycle, Category: CategoryChange},
	}

	path := createTestLogFile(t, events)

	filter := Filter{ListenerID: "listener-A"}
	reader, err := NewFilteredReader(path, filter)
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}

	if len(read) != 2 {
		t.Fatalf("got %d events, want 2", len(read))
	}

	for _, e := range read {
		if e.ListenerID != "listener-A" {
			t.Errorf("event has ListenerID=%q, want %q", e.ListenerID, "listener-A")
		}
	}
}

func TestReaderFilterByLayer(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), ListenerID: "listener-1", Layer: LayerLifecycle, Category: CategoryChange},
		{Timestamp: time.Now(), ListenerID: "listener-2", Layer: LayerDispatch, Category: CategoryChange},
		{Timestamp: time.Now(), ListenerID: "listener-3", Layer: LayerDispatch, Category: CategoryChange},
		{Timestamp: time.Now(), ListenerID: "listener-4", Layer: LayerFeed, Category: CategoryState},
	}

	path := createTestLogFile(t, events)

	layer := LayerDispatch
	filter := Filter{Layer: &layer}
	reader, err := NewFilteredReader(path, filter)
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}

	if len(read) != 2 {
		t.Fatalf("got %d events, want 2", len(read))
	}

	for _, e := range read {
		if e.Layer != LayerDispatch {
			t.Errorf("event has Layer=%v, want %v", e.Layer, LayerDispatch)
		}
	}
}

func TestReaderFilterByTimeRange(t *testing.T) {
	baseTime := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)

	events := []Event{
		{Timestamp: baseTime.Add(-1 * time.Hour), ListenerID: "listener-1", Layer: LayerLifecycle, Category: CategoryChange},
		{Timestamp: baseTime, ListenerID: "listener-2", Layer: LayerDispatch, Category: CategoryChange},
		{Timestamp: baseTime.Add(30 * time.Minute), ListenerID: "listener-3", Layer: LayerFeed, Category: CategoryState},
		{Timestamp: baseTime.Add(2 * time.Hour), ListenerID: "listener-4", Layer: LayerLifecycle, Category: CategoryChange},
	}

	path := createTestLogFile(t, events)

	start := baseTime.Add(-5 * time.Minute)
	end := baseTime.Add(1 * time.Hour)
	filter := Filter{
		TimeStart: &start,
		TimeEnd:   &end,
	}
	reader, err := NewFilteredReader(path, filter)
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}

	if len(read) != 2 {
		t.Fatalf("got %d events, want 2 (events within time range)", len(read))
	}

	// Verify it's the middle two events
	if read[0].ListenerID != "listener-2" {
		t.Errorf("first event ListenerID = %q, want %q", read[0].ListenerID, "listener-2")
	}
	if read[1].ListenerID != "listener-3" {
		t.Errorf("second event ListenerID = %q, want %q", read[1].ListenerID, "listener-3")
	}
}

func TestReaderFilterByKindAndDecision(t *testing.T) {
	change := func(kind subscription.Kind, path string, d Decision) Event {
		return Event{
			Timestamp:  time.Now(),
			ListenerID: "listener-1",
			Layer:      LayerDispatch,
			Category:   CategoryChange,
			Change:     &ChangeEvent{Kind: kind, Path: path, Decision: d},
		}
	}
	events := []Event{
		change(subscription.KindEntityAdded, "/content/a", DecisionDispatched),
		change(subscription.KindPropertyAdded, "/content/a/title", DecisionDispatched),
		change(subscription.KindEntityAdded, "/content/b", DecisionAborted),
		{Timestamp: time.Now(), ListenerID: "listener-1", Layer: LayerLifecycle, Category: CategoryState},
	}

	path := createTestLogFile(t, events)

	kind := subscription.KindEntityAdded
	decision := DecisionDispatched
	reader, err := NewFilteredReader(path, Filter{Kind: &kind, Decision: &decision})
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}

	if len(read) != 1 {
		t.Fatalf("got %d events, want 1", len(read))
	}
	if read[0].Change.Path != "/content/a" {
		t.Errorf("Path = %q, want /content/a", read[0].Change.Path)
	}
}

func TestFilterPathPrefixSkipsNonChangeEvents(t *testing.T) {
	f := Filter{PathPrefix: "/content"}

	if f.Matches(Event{Category: CategoryState}) {
		t.Error("state event should not match a path filter")
	}
	if !f.Matches(Event{Change: &ChangeEvent{Path: "/content/x"}}) {
		t.Error("change under prefix should match")
	}
	if f.Matches(Event{Change: &ChangeEvent{Path: "/etc/x"}}) {
		t.Error("change outside prefix should not match")
	}
}

func TestReaderCombinedFilters(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), ListenerID: "listener-A", Member: "m1", Layer: LayerLifecycle, Category: CategoryChange},
		{Timestamp: time.Now(), ListenerID: "listener-A", Member: "m2", Layer: LayerDispatch, Category: CategoryChange},
		{Timestamp: time.Now(), ListenerID: "listener-B", Member: "m1", Layer: LayerDispatch, Category: CategoryChange},
		{Timestamp: time.Now(), ListenerID: "listener-A", Member: "m1", Layer: LayerDispatch, Category: CategoryChange},
	}

	path := createTestLogFile(t, events)

	layer := LayerDispatch
	filter := Filter{
		ListenerID: "listener-A",
		Layer:      &layer,
		Member:     "m1",
	}
	reader, err := NewFilteredReader(path, filter)
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}

	// Only the last event matches all criteria
	if len(read) != 1 {
		t.Fatalf("got %d events, want 1", len(read))
	}

	if read[0].ListenerID != "listener-A" || read[0].Layer != LayerDispatch || read[0].Member != "m1" {
		t.Error("event doesn't match all filter criteria")
	}
}
