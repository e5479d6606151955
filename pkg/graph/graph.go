package graph

import (
	"fmt"
	"slices"
)

// Graph owns nodes, their ports and the connections between ports. It is not
// safe for concurrent use; callers serialize access.
type Graph[N any, D DataType, V any] struct {
	nodes       map[NodeID]*Node[N]
	order       []NodeID
	inputs      map[InputID]*InputParam[D, V]
	outputs     map[OutputID]*OutputParam[D]
	connections map[InputID]OutputID
}

// New creates an empty graph.
func New[N any, D DataType, V any]() *Graph[N, D, V] {
	return &Graph[N, D, V]{
		nodes:       make(map[NodeID]*Node[N]),
		order:       make([]NodeID, 0),
		inputs:      make(map[InputID]*InputParam[D, V]),
		outputs:     make(map[OutputID]*OutputParam[D]),
		connections: make(map[InputID]OutputID),
	}
}

// AddNode allocates an empty node carrying userData and returns its id.
// Ports are added afterwards with AddInputParam and AddOutputParam.
func (g *Graph[N, D, V]) AddNode(label string, userData N) NodeID {
	id := newNodeID()
	g.nodes[id] = &Node[N]{
		ID:       id,
		Label:    label,
		Inputs:   make([]PortRef[InputID], 0),
		Outputs:  make([]PortRef[OutputID], 0),
		UserData: userData,
	}
	g.order = append(g.order, id)
	return id
}

// AddInputParam appends an input port to node. It panics if node does not
// exist: ports are only ever built into a node that was just allocated.
func (g *Graph[N, D, V]) AddInputParam(node NodeID, name string, typ D, val V, kind InputParamKind, shownInline bool) InputID {
	n := g.mustNode(node)
	id := newInputID()
	g.inputs[id] = &InputParam[D, V]{
		ID:          id,
		Node:        node,
		Name:        name,
		Type:        typ,
		Value:       val,
		Kind:        kind,
		ShownInline: shownInline,
	}
	n.Inputs = append(n.Inputs, PortRef[InputID]{Name: name, ID: id})
	return id
}

// AddOutputParam appends an output port to node.
func (g *Graph[N, D, V]) AddOutputParam(node NodeID, name string, typ D) OutputID {
	n := g.mustNode(node)
	id := newOutputID()
	g.outputs[id] = &OutputParam[D]{
		ID:   id,
		Node: node,
		Name: name,
		Type: typ,
	}
	n.Outputs = append(n.Outputs, PortRef[OutputID]{Name: name, ID: id})
	return id
}

func (g *Graph[N, D, V]) mustNode(id NodeID) *Node[N] {
	n, ok := g.nodes[id]
	if !ok {
		panic(fmt.Sprintf("graph: add port to missing node %s", id))
	}
	return n
}

// RemoveNode deletes node together with its ports and every connection that
// touches them. It returns the removed node and connections.
func (g *Graph[N, D, V]) RemoveNode(id NodeID) (*Node[N], []Connection, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	var removed []Connection
	for _, in := range n.Inputs {
		if out, ok := g.connections[in.ID]; ok {
			removed = append(removed, Connection{Output: out, Input: in.ID})
			delete(g.connections, in.ID)
		}
		delete(g.inputs, in.ID)
	}

	owned := make(map[OutputID]struct{}, len(n.Outputs))
	for _, out := range n.Outputs {
		owned[out.ID] = struct{}{}
		delete(g.outputs, out.ID)
	}
	for _, in := range g.sortedInputs() {
		out := g.connections[in]
		if _, ok := owned[out]; ok {
			removed = append(removed, Connection{Output: out, Input: in})
			delete(g.connections, in)
		}
	}

	delete(g.nodes, id)
	g.order = slices.DeleteFunc(g.order, func(other NodeID) bool { return other == id })
	return n, removed, nil
}

// Connect wires output to input. The port types must be equal and the input
// must accept connections. An input holds at most one connection, so an
// existing wire into input is replaced.
func (g *Graph[N, D, V]) Connect(output OutputID, input InputID) error {
	out, ok := g.outputs[output]
	if !ok {
		return fmt.Errorf("%w: %s", ErrOutputNotFound, output)
	}
	in, ok := g.inputs[input]
	if !ok {
		return fmt.Errorf("%w: %s", ErrInputNotFound, input)
	}
	if !in.Kind.Connectable() {
		return fmt.Errorf("%w: %q", ErrNotConnectable, in.Name)
	}
	if out.Type != in.Type {
		return fmt.Errorf("%w: output %q is %s, input %q is %s",
			ErrIncompatibleTypes, out.Name, out.Type.Name(), in.Name, in.Type.Name())
	}
	g.connections[input] = output
	return nil
}

// Disconnect removes the wire into input, returning the output it came from.
func (g *Graph[N, D, V]) Disconnect(input InputID) (OutputID, bool) {
	out, ok := g.connections[input]
	if ok {
		delete(g.connections, input)
	}
	return out, ok
}

// Connection returns the output wired into input, if any.
func (g *Graph[N, D, V]) Connection(input InputID) (OutputID, bool) {
	out, ok := g.connections[input]
	return out, ok
}

// Connections returns every wire, ordered by node creation and port order of
// the input side.
func (g *Graph[N, D, V]) Connections() []Connection {
	conns := make([]Connection, 0, len(g.connections))
	for _, id := range g.order {
		for _, in := range g.nodes[id].Inputs {
			if out, ok := g.connections[in.ID]; ok {
				conns = append(conns, Connection{Output: out, Input: in.ID})
			}
		}
	}
	return conns
}

// Node returns the node with the given id.
func (g *Graph[N, D, V]) Node(id NodeID) (*Node[N], bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// HasNode reports whether id refers to a live node.
func (g *Graph[N, D, V]) HasNode(id NodeID) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns all nodes in creation order.
func (g *Graph[N, D, V]) Nodes() []*Node[N] {
	nodes := make([]*Node[N], 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// Len returns the number of nodes.
func (g *Graph[N, D, V]) Len() int {
	return len(g.order)
}

// Input returns a copy of the input port with the given id. Its value is
// changed only through SetInputValue.
func (g *Graph[N, D, V]) Input(id InputID) (InputParam[D, V], bool) {
	in, ok := g.inputs[id]
	if !ok {
		return InputParam[D, V]{}, false
	}
	return *in, true
}

// SetInputValue replaces the local value of input. A value that reports its
// own type tag through Kind() must carry the port's type.
func (g *Graph[N, D, V]) SetInputValue(id InputID, val V) error {
	in, ok := g.inputs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrInputNotFound, id)
	}
	if tagged, ok := any(val).(interface{ Kind() D }); ok && tagged.Kind() != in.Type {
		return fmt.Errorf("%w: input %q is %s, value is %s",
			ErrValueType, in.Name, in.Type.Name(), tagged.Kind().Name())
	}
	in.Value = val
	return nil
}

// Output returns a copy of the output port with the given id.
func (g *Graph[N, D, V]) Output(id OutputID) (OutputParam[D], bool) {
	out, ok := g.outputs[id]
	if !ok {
		return OutputParam[D]{}, false
	}
	return *out, true
}

// InputNamed looks up an input of node by name.
func (g *Graph[N, D, V]) InputNamed(node NodeID, name string) (InputID, error) {
	n, ok := g.nodes[node]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNodeNotFound, node)
	}
	for _, in := range n.Inputs {
		if in.Name == name {
			return in.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %q on node %s", ErrInputNotFound, name, node)
}

// OutputNamed looks up an output of node by name.
func (g *Graph[N, D, V]) OutputNamed(node NodeID, name string) (OutputID, error) {
	n, ok := g.nodes[node]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNodeNotFound, node)
	}
	for _, out := range n.Outputs {
		if out.Name == name {
			return out.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %q on node %s", ErrOutputNotFound, name, node)
}

// sortedInputs returns the connected input ids in a stable order.
func (g *Graph[N, D, V]) sortedInputs() []InputID {
	ids := make([]InputID, 0, len(g.connections))
	for id := range g.connections {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
