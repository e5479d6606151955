package editor

import (
	"github.com/rmax-ai/velnode/pkg/graph"
	"github.com/rmax-ai/velnode/pkg/template"
	"github.com/rmax-ai/velnode/pkg/value"
)

// Snapshot is a JSON view of a document, served by the inspection API and
// the MCP graph resource.
type Snapshot struct {
	DocumentID  string               `json:"document_id"`
	Nodes       []NodeSnapshot       `json:"nodes"`
	Connections []ConnectionSnapshot `json:"connections"`
	Active      graph.NodeID         `json:"active,omitempty"`
}

type NodeSnapshot struct {
	ID       graph.NodeID      `json:"id"`
	Label    string            `json:"label"`
	Template template.Template `json:"template"`
	Active   bool              `json:"active"`
	Inputs   []InputSnapshot   `json:"inputs"`
	Outputs  []OutputSnapshot  `json:"outputs"`
}

type InputSnapshot struct {
	ID        graph.InputID  `json:"id"`
	Name      string         `json:"name"`
	Type      value.DataType `json:"type"`
	Value     value.Value    `json:"value"`
	Connected graph.OutputID `json:"connected_from,omitempty"`
}

type OutputSnapshot struct {
	ID   graph.OutputID `json:"id"`
	Name string         `json:"name"`
	Type value.DataType `json:"type"`
}

type ConnectionSnapshot struct {
	Output graph.OutputID `json:"output"`
	Input  graph.InputID  `json:"input"`
}

// StateSnapshot is the JSON view of the interaction state.
type StateSnapshot struct {
	Active graph.NodeID `json:"active,omitempty"`
	Stale  bool         `json:"stale"`
}

// Snapshot captures the document. A stale active id is reported as empty.
func (d *Document) Snapshot() Snapshot {
	g := d.graph
	active, _ := d.state.ActiveIn(g)
	snap := Snapshot{
		DocumentID:  d.id,
		Nodes:       make([]NodeSnapshot, 0, g.Len()),
		Connections: []ConnectionSnapshot{},
		Active:      active,
	}
	for _, n := range g.Nodes() {
		ns := NodeSnapshot{
			ID:       n.ID,
			Label:    n.Label,
			Template: n.UserData.Template(),
			Active:   active != "" && active == n.ID,
			Inputs:   make([]InputSnapshot, 0, len(n.Inputs)),
			Outputs:  make([]OutputSnapshot, 0, len(n.Outputs)),
		}
		for _, ref := range n.Inputs {
			in, _ := g.Input(ref.ID)
			from, _ := g.Connection(ref.ID)
			ns.Inputs = append(ns.Inputs, InputSnapshot{
				ID:        in.ID,
				Name:      in.Name,
				Type:      in.Type,
				Value:     in.Value,
				Connected: from,
			})
		}
		for _, ref := range n.Outputs {
			out, _ := g.Output(ref.ID)
			ns.Outputs = append(ns.Outputs, OutputSnapshot{ID: out.ID, Name: out.Name, Type: out.Type})
		}
		snap.Nodes = append(snap.Nodes, ns)
	}
	for _, c := range g.Connections() {
		snap.Connections = append(snap.Connections, ConnectionSnapshot{Output: c.Output, Input: c.Input})
	}
	return snap
}

// StateSnapshot reports the raw active id and whether it is stale.
func (d *Document) StateSnapshot() StateSnapshot {
	raw, ok := d.state.Active()
	if !ok {
		return StateSnapshot{}
	}
	return StateSnapshot{Active: raw, Stale: !d.graph.HasNode(raw)}
}
