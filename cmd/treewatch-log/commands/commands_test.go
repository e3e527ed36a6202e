package commands

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/treewatch/treewatch-go/pkg/log"
	"github.com/treewatch/treewatch-go/pkg/subscription"
)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.cbor")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func readAll(t *testing.T, path string) []log.Event {
	t.Helper()
	reader, err := log.NewReader(path)
	if err != nil {
		t.Fatalf("failed to open: %v", err)
	}
	defer reader.Close()

	var out []log.Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("failed to read event: %v", err)
		}
		out = append(out, event)
	}
}

// sampleEvents is a short listener session: activation, one local batch,
// one external batch and a read error.
func sampleEvents() []log.Event {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	at := func(sec int) time.Time { return base.Add(time.Duration(sec) * time.Second) }
	return []log.Event{
		{
			Timestamp: at(0), ListenerID: "abc12345-listener", Member: "node-a",
			Layer: log.LayerLifecycle, Category: log.CategoryState,
			StateChange: &log.StateChangeEvent{Entity: log.StateEntityListener, OldState: "UNREGISTERED", NewState: "ACTIVE", Reason: "activated"},
		},
		{
			Timestamp: at(1), Member: "node-a",
			Layer: log.LayerFeed, Category: log.CategoryChange,
			Change: &log.ChangeEvent{Kind: subscription.KindEntityAdded, Path: "/content/a", Decision: log.DecisionPublished},
		},
		{
			Timestamp: at(1), ListenerID: "abc12345-listener", Member: "node-a", Batch: 1,
			Layer: log.LayerDispatch, Category: log.CategoryChange,
			Change: &log.ChangeEvent{Kind: subscription.KindEntityAdded, Path: "/content/a", Decision: log.DecisionDispatched},
		},
		{
			Timestamp: at(2), ListenerID: "abc12345-listener", Member: "node-a", Batch: 2,
			Layer: log.LayerDispatch, Category: log.CategoryChange,
			Change: &log.ChangeEvent{Kind: subscription.KindPropertyAdded, Path: "/var/x/p", External: true, Decision: log.DecisionAborted},
		},
		{
			Timestamp: at(3), ListenerID: "abc12345-listener", Member: "node-a", Batch: 3,
			Layer: log.LayerDispatch, Category: log.CategoryError,
			Error: &log.ErrorEventData{Layer: log.LayerDispatch, Message: "batch read failed: eof", Context: "error while treating events"},
		},
	}
}

func TestFormatChangeEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, sampleEvents()[3])
	output := buf.String()

	if !strings.Contains(output, "2026-03-02T09:00:02.000000Z") {
		t.Errorf("expected timestamp, got: %s", output)
	}
	if !strings.Contains(output, "[listener:abc12345]") {
		t.Errorf("expected shortened listener ID, got: %s", output)
	}
	if !strings.Contains(output, "DISPATCH ABORTED @node-a") {
		t.Errorf("expected layer and decision, got: %s", output)
	}
	if !strings.Contains(output, "PROPERTY_ADDED /var/x/p") {
		t.Errorf("expected kind and path, got: %s", output)
	}
	if !strings.Contains(output, "Origin: external") {
		t.Errorf("expected external origin, got: %s", output)
	}
}

func TestFormatStateAndErrorEvents(t *testing.T) {
	events := sampleEvents()

	var buf bytes.Buffer
	formatEvent(&buf, events[0])
	if !strings.Contains(buf.String(), "UNREGISTERED -> ACTIVE") {
		t.Errorf("expected transition, got: %s", buf.String())
	}

	buf.Reset()
	formatEvent(&buf, events[4])
	if !strings.Contains(buf.String(), "Message: batch read failed: eof") {
		t.Errorf("expected error message, got: %s", buf.String())
	}

	buf.Reset()
	formatEvent(&buf, events[1])
	if !strings.Contains(buf.String(), "[listener:-]") {
		t.Errorf("expected placeholder for feed events, got: %s", buf.String())
	}
}

func TestRunViewWithDecisionFilter(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	d := log.DecisionAborted
	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{Decision: &d}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	output := buf.String()
	if strings.Count(output, "[listener:") != 1 {
		t.Errorf("expected exactly one event, got: %s", output)
	}
	if !strings.Contains(output, "/var/x/p") {
		t.Errorf("expected aborted change, got: %s", output)
	}
}

func TestRunViewMissingFile(t *testing.T) {
	if err := RunView(filepath.Join(t.TempDir(), "nope.cbor"), ViewFilter{}, io.Discard); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseFlags(t *testing.T) {
	if l, err := ParseLayerFlag("Dispatch"); err != nil || l != log.LayerDispatch {
		t.Errorf("ParseLayerFlag: got %v, %v", l, err)
	}
	if _, err := ParseLayerFlag("wire"); err == nil {
		t.Error("expected error for unknown layer")
	}
	if c, err := ParseCategoryFlag("CHANGE"); err != nil || c != log.CategoryChange {
		t.Errorf("ParseCategoryFlag: got %v, %v", c, err)
	}
	if _, err := ParseCategoryFlag("message"); err == nil {
		t.Error("expected error for unknown category")
	}
	for _, d := range allDecisions {
		got, err := ParseDecisionFlag(strings.ToLower(d.String()))
		if err != nil || got != d {
			t.Errorf("ParseDecisionFlag(%s): got %v, %v", d, got, err)
		}
	}
	if _, err := ParseDecisionFlag("accepted"); err == nil {
		t.Error("expected error for unknown decision")
	}
}

func TestRunFilter(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	tests := []struct {
		name string
		opts FilterOptions
		want int
	}{
		{"listener prefix", FilterOptions{ListenerID: "abc1"}, 4},
		{"path prefix", FilterOptions{PathPrefix: "/content"}, 2},
		{"kind", FilterOptions{Kind: "property_added"}, 1},
		{"decision", FilterOptions{Decision: "published"}, 1},
		{"layer and category", FilterOptions{Layer: "dispatch", Category: "change"}, 2},
		{"time range", FilterOptions{TimeStart: "2026-03-02T09:00:01Z", TimeEnd: "2026-03-02T09:00:03Z"}, 3},
		{"member", FilterOptions{Member: "node-b"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Output = filepath.Join(t.TempDir(), "out.cbor")
			n, err := RunFilter(path, tt.opts)
			if err != nil {
				t.Fatalf("RunFilter failed: %v", err)
			}
			if n != tt.want {
				t.Errorf("count: got %d, want %d", n, tt.want)
			}
			if got := len(readAll(t, tt.opts.Output)); got != tt.want {
				t.Errorf("written: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRunFilterInvalidOptions(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "out.cbor")

	for _, opts := range []FilterOptions{
		{Output: out, TimeStart: "yesterday"},
		{Output: out, TimeEnd: "tomorrow"},
		{Output: out, Layer: "transport"},
		{Output: out, Category: "control"},
		{Output: out, Kind: "renamed"},
		{Output: out, Decision: "maybe"},
	} {
		if _, err := RunFilter(path, opts); err == nil {
			t.Errorf("expected error for %+v", opts)
		}
	}
}

func TestExportJSONL(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	reader, err := log.NewReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()

	var buf bytes.Buffer
	if err := export(reader, "jsonl", &buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}
	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if first["ListenerID"] != "abc12345-listener" {
		t.Errorf("ListenerID: got %v", first["ListenerID"])
	}
}

func TestExportCSV(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	reader, err := log.NewReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()

	var buf bytes.Buffer
	if err := export(reader, "csv", &buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(records) != 6 {
		t.Fatalf("expected header + 5 rows, got %d", len(records))
	}
	row := records[4]
	if row[7] != "PROPERTY_ADDED" || row[9] != "true" || row[10] != "ABORTED" {
		t.Errorf("unexpected row: %v", row)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	if err := RunExport(path, "xml", filepath.Join(t.TempDir(), "out")); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRunStats(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"Total Events: 5",
		"LIFECYCLE:",
		"FEED:",
		"ENTITY_ADDED:",
		"ABORTED:",
		"Listeners: 1",
		"[abc12345]",
		"Member: node-a",
		"Batches: 3 (aborted: 1), dispatched: 1",
		"Errors: 1",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestRunStatsEmptyFile(t *testing.T) {
	path := createTestLogFile(t, nil)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Total Events: 0") {
		t.Errorf("unexpected output: %s", buf.String())
	}
	if strings.Contains(buf.String(), "Errors:") {
		t.Error("no errors section expected")
	}
}
