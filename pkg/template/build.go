package template

import (
	"fmt"

	"github.com/rmax-ai/velnode/pkg/graph"
	"github.com/rmax-ai/velnode/pkg/value"
)

// PortSpec describes one port of a template. Default is only meaningful for
// inputs.
type PortSpec struct {
	Name    string
	Type    value.DataType
	Default value.Value
}

type shape struct {
	inputs  []PortSpec
	outputs []PortSpec
}

func scalarIn(name string) PortSpec {
	return PortSpec{Name: name, Type: value.DataTypeScalar, Default: value.Scalar(0)}
}

func vectorIn(name string) PortSpec {
	return PortSpec{Name: name, Type: value.DataTypeVec2, Default: value.Vector(0, 0)}
}

func scalarOut(name string) PortSpec {
	return PortSpec{Name: name, Type: value.DataTypeScalar, Default: value.Scalar(0)}
}

func vectorOut(name string) PortSpec {
	return PortSpec{Name: name, Type: value.DataTypeVec2, Default: value.Vector(0, 0)}
}

var shapes = [...]shape{
	MakeScalar: {
		inputs:  []PortSpec{scalarIn("value")},
		outputs: []PortSpec{scalarOut("out")},
	},
	MakeVector: {
		inputs:  []PortSpec{scalarIn("x"), scalarIn("y")},
		outputs: []PortSpec{vectorOut("out")},
	},
	AddScalar: {
		inputs:  []PortSpec{scalarIn("A"), scalarIn("B")},
		outputs: []PortSpec{scalarOut("out")},
	},
	SubtractScalar: {
		inputs:  []PortSpec{scalarIn("A"), scalarIn("B")},
		outputs: []PortSpec{scalarOut("out")},
	},
	AddVector: {
		inputs:  []PortSpec{vectorIn("v1"), vectorIn("v2")},
		outputs: []PortSpec{vectorOut("out")},
	},
	SubtractVector: {
		inputs:  []PortSpec{vectorIn("v1"), vectorIn("v2")},
		outputs: []PortSpec{vectorOut("out")},
	},
	VectorTimesScalar: {
		inputs:  []PortSpec{scalarIn("scalar"), vectorIn("vector")},
		outputs: []PortSpec{vectorOut("out")},
	},
}

func (t Template) shape() shape {
	if !t.Valid() {
		panic(fmt.Sprintf("template: no shape for %d", int(t)))
	}
	return shapes[t]
}

// Inputs returns the input ports of t in build order.
func (t Template) Inputs() []PortSpec {
	return append([]PortSpec(nil), t.shape().inputs...)
}

// Outputs returns the output ports of t in build order.
func (t Template) Outputs() []PortSpec {
	return append([]PortSpec(nil), t.shape().outputs...)
}

// Build appends t's ports to the empty node id. Every input accepts either a
// connection or a locally edited constant, starting from its default. Build
// panics if t is not a declared template.
func (t Template) Build(g *Graph, id graph.NodeID) {
	s := t.shape()
	for _, in := range s.inputs {
		g.AddInputParam(id, in.Name, in.Type, in.Default, graph.ConnectionOrConstant, true)
	}
	for _, out := range s.outputs {
		g.AddOutputParam(id, out.Name, out.Type)
	}
}
