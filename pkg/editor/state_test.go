package editor

import (
	"testing"

	"github.com/rmax-ai/velnode/pkg/graph"
)

type fakeGraph map[graph.NodeID]bool

func (f fakeGraph) HasNode(id graph.NodeID) bool { return f[id] }

func TestGraphStateApply(t *testing.T) {
	var s GraphState
	if _, ok := s.Active(); ok {
		t.Fatal("zero state should have no active node")
	}

	s.Apply(SetActive{Node: "n1"})
	if id, ok := s.Active(); !ok || id != "n1" {
		t.Fatalf("expected n1 active, got %q %v", id, ok)
	}

	s.Apply(SetActive{Node: "n2"})
	if !s.IsActive("n2") || s.IsActive("n1") {
		t.Error("SetActive should replace the previous active node")
	}

	s.Apply(ClearActive{})
	if _, ok := s.Active(); ok {
		t.Error("ClearActive should clear the active node")
	}
}

func TestGraphStateIdempotent(t *testing.T) {
	var once, twice GraphState
	once.Apply(SetActive{Node: "n1"})
	twice.Apply(SetActive{Node: "n1"})
	twice.Apply(SetActive{Node: "n1"})
	if once != twice {
		t.Errorf("SetActive twice = %+v, once = %+v", twice, once)
	}

	once.Apply(ClearActive{})
	twice.Apply(ClearActive{})
	twice.Apply(ClearActive{})
	if once != twice {
		t.Errorf("ClearActive twice = %+v, once = %+v", twice, once)
	}
}

func TestGraphStateStale(t *testing.T) {
	g := fakeGraph{"n1": true}
	var s GraphState
	s.Apply(SetActive{Node: "gone"})

	if _, ok := s.ActiveIn(g); ok {
		t.Error("a stale active id should read as no active node")
	}
	if !s.Reconcile(g) {
		t.Error("Reconcile should report the stale id was cleared")
	}
	if _, ok := s.Active(); ok {
		t.Error("Reconcile should clear the stale id")
	}
	if s.Reconcile(g) {
		t.Error("Reconcile on a clean state should be a no-op")
	}

	s.Apply(SetActive{Node: "n1"})
	if s.Reconcile(g) {
		t.Error("Reconcile should keep a live active node")
	}
	if id, ok := s.ActiveIn(g); !ok || id != "n1" {
		t.Errorf("ActiveIn = %q %v, want n1", id, ok)
	}
}

func TestResponseKinds(t *testing.T) {
	if got := (SetActive{Node: "n"}).Kind(); got != "set_active" {
		t.Errorf("SetActive kind = %q", got)
	}
	if got := (ClearActive{}).Kind(); got != "clear_active" {
		t.Errorf("ClearActive kind = %q", got)
	}
}
