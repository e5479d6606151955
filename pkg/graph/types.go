// Package graph is the generic owning store of nodes, typed ports and
// connections that a node editor instantiates with its own node payload,
// port type tag and port value.
package graph

import "github.com/google/uuid"

// NodeID identifies a node within one Graph.
type NodeID string

// InputID identifies an input port.
type InputID string

// OutputID identifies an output port.
type OutputID string

func newNodeID() NodeID     { return NodeID(uuid.NewString()) }
func newInputID() InputID   { return InputID(uuid.NewString()) }
func newOutputID() OutputID { return OutputID(uuid.NewString()) }

// DataType is the constraint on port type tags: comparable so that the
// container can enforce equality on connect, and named for error messages.
type DataType interface {
	comparable
	Name() string
}

// InputParamKind says how an input port may receive its value.
type InputParamKind int

const (
	// ConnectionOnly inputs are only fed by wires.
	ConnectionOnly InputParamKind = iota
	// ConstantOnly inputs only hold a locally edited value.
	ConstantOnly
	// ConnectionOrConstant inputs use their local value until wired.
	ConnectionOrConstant
)

func (k InputParamKind) String() string {
	switch k {
	case ConnectionOnly:
		return "connection_only"
	case ConstantOnly:
		return "constant_only"
	case ConnectionOrConstant:
		return "connection_or_constant"
	default:
		return "unknown"
	}
}

// Connectable reports whether a wire may end at an input of this kind.
func (k InputParamKind) Connectable() bool {
	return k == ConnectionOnly || k == ConnectionOrConstant
}

// PortRef is a named entry in a node's ordered port list.
type PortRef[ID ~string] struct {
	Name string
	ID   ID
}

// Node is a vertex of the graph. Ports are listed in the order they were
// added.
type Node[N any] struct {
	ID       NodeID
	Label    string
	Inputs   []PortRef[InputID]
	Outputs  []PortRef[OutputID]
	UserData N
}

// InputParam is an input port and its locally edited value.
type InputParam[D DataType, V any] struct {
	ID          InputID
	Node        NodeID
	Name        string
	Type        D
	Value       V
	Kind        InputParamKind
	ShownInline bool
}

// OutputParam is an output port.
type OutputParam[D DataType] struct {
	ID   OutputID
	Node NodeID
	Name string
	Type D
}

// Connection is a wire from an output to an input.
type Connection struct {
	Output OutputID
	Input  InputID
}
