package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// setupTestStore creates a temporary database for testing
func setupTestStore(t *testing.T) (*Store, string, func()) {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "velnode-store-test-ext")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	dbPath := filepath.Join(tmpDir, "velnode.db")
	store, err := NewStore(dbPath)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("NewStore failed: %v", err)
	}

	cleanup := func() {
		store.Close()
		os.RemoveAll(tmpDir)
	}

	return store, dbPath, cleanup
}

func testEvent(id string, typ EventType, node string) *Event {
	return &Event{
		EventID:       EventID(id),
		EventType:     typ,
		SchemaVersion: SchemaVersion,
		TsEvent:       time.Now().UTC(),
		DocumentID:    "doc-1",
		NodeID:        node,
		Payload:       json.RawMessage(`{"template":"make_scalar"}`),
	}
}

func TestGetEvent(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	val, err := store.GetEvent(ctx, "non_existent")
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if val != nil {
		t.Errorf("expected nil for non-existent event, got %v", val)
	}

	evt := testEvent("evt_get_1", EventTypeNodeCreated, "node-1")
	if err := store.AppendEvent(ctx, evt); err != nil {
		t.Fatalf("AppendEvent failed: %v", err)
	}

	got, err := store.GetEvent(ctx, "evt_get_1")
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if got == nil {
		t.Fatalf("expected event, got nil")
	}
	if got.EventID != evt.EventID || got.EventType != evt.EventType || got.NodeID != "node-1" {
		t.Errorf("unexpected event %+v", got)
	}
	if got.DocumentID != "doc-1" || got.SchemaVersion != SchemaVersion {
		t.Errorf("unexpected envelope %+v", got)
	}
	if string(got.Payload) != `{"template":"make_scalar"}` {
		t.Errorf("unexpected payload %s", got.Payload)
	}
}

func TestAppendEventValidation(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.AppendEvent(ctx, nil); err == nil {
		t.Error("expected error for nil event")
	}
	if err := store.AppendEvent(ctx, &Event{EventType: EventTypeActiveCleared}); err == nil {
		t.Error("expected error for empty event id")
	}

	evt := testEvent("dup", EventTypeActiveCleared, "")
	if err := store.AppendEvent(ctx, evt); err != nil {
		t.Fatalf("AppendEvent failed: %v", err)
	}
	if err := store.AppendEvent(ctx, evt); err == nil {
		t.Error("expected error for duplicate event id")
	}

	empty := testEvent("empty_payload", EventTypeActiveCleared, "")
	empty.Payload = nil
	if err := store.AppendEvent(ctx, empty); err != nil {
		t.Fatalf("AppendEvent with empty payload failed: %v", err)
	}
	got, _ := store.GetEvent(ctx, "empty_payload")
	if got == nil || string(got.Payload) != `{}` {
		t.Errorf("expected empty object payload, got %+v", got)
	}
}

func TestReadRecentEvents(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		evt := testEvent(fmt.Sprintf("evt_%d", i), EventTypeValueEdited, "node-1")
		if err := store.AppendEvent(ctx, evt); err != nil {
			t.Fatalf("AppendEvent failed: %v", err)
		}
	}

	events, err := store.ReadRecentEvents(ctx, 3)
	if err != nil {
		t.Fatalf("ReadRecentEvents failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	for i, want := range []EventID{"evt_2", "evt_3", "evt_4"} {
		if events[i].EventID != want {
			t.Errorf("event %d = %s, want %s", i, events[i].EventID, want)
		}
	}

	all, err := store.ReadRecentEvents(ctx, 0)
	if err != nil {
		t.Fatalf("ReadRecentEvents failed: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("expected all 5 events without a limit, got %d", len(all))
	}
}

func TestQueryEvents(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	seed := []*Event{
		testEvent("e1", EventTypeNodeCreated, "n1"),
		testEvent("e2", EventTypeActiveSet, "n1"),
		testEvent("e3", EventTypeNodeCreated, "n2"),
		testEvent("e4", EventTypeActiveCleared, ""),
		testEvent("e5", EventTypeNodeDeleted, "n1"),
	}
	seed[3].DocumentID = "doc-2"
	for _, evt := range seed {
		if err := store.AppendEvent(ctx, evt); err != nil {
			t.Fatalf("AppendEvent failed: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter EventFilter
		want   []EventID
	}{
		{"by node", EventFilter{NodeID: "n1"}, []EventID{"e1", "e2", "e5"}},
		{"by type", EventFilter{EventTypes: []EventType{EventTypeNodeCreated}}, []EventID{"e1", "e3"}},
		{"by types", EventFilter{EventTypes: []EventType{EventTypeActiveSet, EventTypeActiveCleared}}, []EventID{"e2", "e4"}},
		{"by document", EventFilter{DocumentID: "doc-2"}, []EventID{"e4"}},
		{"combined with limit", EventFilter{NodeID: "n1", Limit: 2}, []EventID{"e2", "e5"}},
		{"no match", EventFilter{NodeID: "n9"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := store.QueryEvents(ctx, tt.filter)
			if err != nil {
				t.Fatalf("QueryEvents failed: %v", err)
			}
			if len(events) != len(tt.want) {
				t.Fatalf("expected %d events, got %d", len(tt.want), len(events))
			}
			for i, id := range tt.want {
				if events[i].EventID != id {
					t.Errorf("event %d = %s, want %s", i, events[i].EventID, id)
				}
			}
		})
	}
}

func TestReadEventsBeforeAndDelete(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		e := testEvent(fmt.Sprintf("old-%d", i), EventTypeValueEdited, "n1")
		e.TsEvent = base.Add(time.Duration(i) * time.Minute)
		if err := store.AppendEvent(ctx, e); err != nil {
			t.Fatalf("AppendEvent failed: %v", err)
		}
	}
	recent := testEvent("new-0", EventTypeActiveSet, "n1")
	recent.TsEvent = base.Add(24 * time.Hour)
	if err := store.AppendEvent(ctx, recent); err != nil {
		t.Fatal(err)
	}

	cutoff := base.Add(time.Hour)
	events, err := store.ReadEventsBefore(ctx, cutoff, 3)
	if err != nil {
		t.Fatalf("ReadEventsBefore failed: %v", err)
	}
	if len(events) != 3 || events[0].EventID != "old-0" || events[2].EventID != "old-2" {
		t.Fatalf("unexpected batch: %v", events)
	}

	ids := make([]EventID, len(events))
	for i, e := range events {
		ids[i] = e.EventID
	}
	deleted, err := store.DeleteEvents(ctx, ids)
	if err != nil {
		t.Fatalf("DeleteEvents failed: %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted %d, want 3", deleted)
	}

	events, err = store.ReadEventsBefore(ctx, cutoff, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || events[0].EventID != "old-3" {
		t.Errorf("remaining old events = %v", events)
	}

	if n, err := store.DeleteEvents(ctx, nil); err != nil || n != 0 {
		t.Errorf("empty delete = %d, %v", n, err)
	}
	if got, _ := store.GetEvent(ctx, "new-0"); got == nil {
		t.Error("recent event must survive")
	}
}
