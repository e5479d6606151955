package editor

import (
	"github.com/rmax-ai/velnode/pkg/graph"
)

// GraphState is the document-scoped interaction state that persists across
// redraws. The active node is a lookup key into the graph, never an owning
// handle. Fields are unexported: Apply is the only mutator.
type GraphState struct {
	active    graph.NodeID
	hasActive bool
}

// Apply folds one Response into the state. Both transitions are idempotent.
func (s *GraphState) Apply(r Response) {
	switch r := r.(type) {
	case SetActive:
		s.active = r.Node
		s.hasActive = true
	case ClearActive:
		s.active = ""
		s.hasActive = false
	}
}

// Active returns the raw active node id, which may be stale.
func (s GraphState) Active() (graph.NodeID, bool) {
	return s.active, s.hasActive
}

// IsActive reports whether id is the active node.
func (s GraphState) IsActive(id graph.NodeID) bool {
	return s.hasActive && s.active == id
}

// nodeLookup is the part of a graph the state needs to detect stale ids.
type nodeLookup interface {
	HasNode(id graph.NodeID) bool
}

// ActiveIn returns the active node only if it still exists in g. A stale id
// reads as "no active node".
func (s GraphState) ActiveIn(g nodeLookup) (graph.NodeID, bool) {
	if !s.hasActive || !g.HasNode(s.active) {
		return "", false
	}
	return s.active, true
}

// Reconcile clears a stale active id. It reports whether the state changed.
func (s *GraphState) Reconcile(g nodeLookup) bool {
	if s.hasActive && !g.HasNode(s.active) {
		s.Apply(ClearActive{})
		return true
	}
	return false
}
