package editor

import (
	"github.com/rmax-ai/velnode/pkg/graph"
	"github.com/rmax-ai/velnode/pkg/template"
	"github.com/rmax-ai/velnode/pkg/value"
)

var (
	// ActiveFill is the body fill of the active node.
	ActiveFill = value.Color{R: 255, G: 215, B: 0}
	// ActiveText is the control text color on ActiveFill.
	ActiveText = value.Color{R: 0, G: 0, B: 0}
)

// Control is the single clickable control of a node body.
type Control struct {
	Label string
	Emits Response
}

// Body is what a node offers on one redraw. It is either inactive, offering
// "Set active", or active, marked with ActiveFill and offering "Active" to
// clear the selection.
type Body struct {
	Node    graph.NodeID
	Active  bool
	Control Control
}

// BodyFor derives the body of node id from a read-only view of the graph and
// the state. A stale active id is treated as no active node.
func BodyFor(id graph.NodeID, g *template.Graph, s GraphState) Body {
	active, ok := s.ActiveIn(g)
	if ok && active == id {
		return Body{
			Node:    id,
			Active:  true,
			Control: Control{Label: "Active", Emits: ClearActive{}},
		}
	}
	return Body{
		Node:    id,
		Control: Control{Label: "Set active", Emits: SetActive{Node: id}},
	}
}

// Click returns the responses emitted by one click on the body's control:
// exactly one.
func (b Body) Click() []Response {
	return []Response{b.Control.Emits}
}
