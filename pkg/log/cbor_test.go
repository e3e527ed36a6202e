package log

import (
	"testing"
	"time"

	"github.com/treewatch/treewatch-go/pkg/subscription"
)

func TestEventCBORRoundTrip(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 123456789, time.UTC)
	original := Event{
		Timestamp:  ts,
		ListenerID: "abc12345-def6-7890-abcd-ef1234567890",
		Layer:      LayerDispatch,
		Category:   CategoryChange,
		SessionID:  "session-1",
		Member:     "author-1",
		Batch:      7,
		Change: &ChangeEvent{
			Kind:     subscription.KindPropertyAdded,
			Path:     "/content/a/title",
			External: true,
			Decision: DecisionAborted,
			Index:    2,
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if !decoded.Timestamp.Equal(original.Timestamp) {
		t.Errorf("Timestamp: got %v, want %v", decoded.Timestamp, original.Timestamp)
	}
	if decoded.ListenerID != original.ListenerID {
		t.Errorf("ListenerID: got %q, want %q", decoded.ListenerID, original.ListenerID)
	}
	if decoded.Member != original.Member || decoded.SessionID != original.SessionID {
		t.Errorf("Member/SessionID: got %q/%q", decoded.Member, decoded.SessionID)
	}
	if decoded.Batch != 7 {
		t.Errorf("Batch: got %d, want 7", decoded.Batch)
	}
	if decoded.Change == nil {
		t.Fatal("Change is nil")
	}
	if *decoded.Change != *original.Change {
		t.Errorf("Change: got %+v, want %+v", *decoded.Change, *original.Change)
	}
	if decoded.StateChange != nil || decoded.Error != nil {
		t.Error("unexpected payloads decoded")
	}
}

func TestEventCBORUsesIntegerKeys(t *testing.T) {
	event := Event{
		Timestamp:  time.Now(),
		ListenerID: "listener-123",
		Layer:      LayerLifecycle,
		Category:   CategoryState,
	}

	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	// Decode to generic map and verify keys are integers
	var rawMap map[uint64]any
	if err := logDecMode.Unmarshal(data, &rawMap); err != nil {
		t.Fatalf("failed to decode as map: %v", err)
	}

	for _, key := range []uint64{1, 2, 3, 4} {
		if _, ok := rawMap[key]; !ok {
			t.Errorf("expected integer key %d not found in encoded data", key)
		}
	}

	var stringMap map[string]any
	if err := logDecMode.Unmarshal(data, &stringMap); err == nil && len(stringMap) > 0 {
		t.Error("encoded data contains string keys, expected integer keys only")
	}
}
