package graph

import (
	"errors"
	"testing"
)

type kind string

func (k kind) Name() string { return string(k) }

const (
	kindNumber kind = "number"
	kindText   kind = "text"
)

type testGraph = Graph[string, kind, int]

// addAdder builds a node with inputs a, b (number) and output out (number).
func addAdder(g *testGraph, label string) NodeID {
	id := g.AddNode(label, "adder")
	g.AddInputParam(id, "a", kindNumber, 0, ConnectionOrConstant, true)
	g.AddInputParam(id, "b", kindNumber, 0, ConnectionOrConstant, true)
	g.AddOutputParam(id, "out", kindNumber)
	return id
}

func mustInput(t *testing.T, g *testGraph, node NodeID, name string) InputID {
	t.Helper()
	id, err := g.InputNamed(node, name)
	if err != nil {
		t.Fatalf("InputNamed(%q) failed: %v", name, err)
	}
	return id
}

func mustOutput(t *testing.T, g *testGraph, node NodeID, name string) OutputID {
	t.Helper()
	id, err := g.OutputNamed(node, name)
	if err != nil {
		t.Fatalf("OutputNamed(%q) failed: %v", name, err)
	}
	return id
}

func TestAddNodeAndPorts(t *testing.T) {
	g := New[string, kind, int]()
	id := addAdder(g, "Add")

	n, ok := g.Node(id)
	if !ok {
		t.Fatal("expected node to exist")
	}
	if n.Label != "Add" || n.UserData != "adder" {
		t.Errorf("unexpected node %+v", n)
	}
	if len(n.Inputs) != 2 || n.Inputs[0].Name != "a" || n.Inputs[1].Name != "b" {
		t.Fatalf("unexpected inputs %+v", n.Inputs)
	}
	if len(n.Outputs) != 1 || n.Outputs[0].Name != "out" {
		t.Fatalf("unexpected outputs %+v", n.Outputs)
	}

	in, ok := g.Input(n.Inputs[0].ID)
	if !ok {
		t.Fatal("expected input to exist")
	}
	if in.Node != id || in.Type != kindNumber || in.Kind != ConnectionOrConstant || !in.ShownInline {
		t.Errorf("unexpected input %+v", in)
	}
	if g.Len() != 1 {
		t.Errorf("Len() = %d, want 1", g.Len())
	}
}

func TestAddPortToMissingNodePanics(t *testing.T) {
	g := New[string, kind, int]()
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	g.AddOutputParam("missing", "out", kindNumber)
}

func TestNodesKeepCreationOrder(t *testing.T) {
	g := New[string, kind, int]()
	first := addAdder(g, "first")
	second := addAdder(g, "second")
	third := addAdder(g, "third")

	nodes := g.Nodes()
	if len(nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(nodes))
	}
	want := []NodeID{first, second, third}
	for i, n := range nodes {
		if n.ID != want[i] {
			t.Errorf("node %d = %s, want %s", i, n.ID, want[i])
		}
	}
}

func TestConnect(t *testing.T) {
	g := New[string, kind, int]()
	src := addAdder(g, "src")
	dst := addAdder(g, "dst")

	out := mustOutput(t, g, src, "out")
	a := mustInput(t, g, dst, "a")
	b := mustInput(t, g, dst, "b")

	if err := g.Connect(out, a); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if err := g.Connect(out, b); err != nil {
		t.Fatalf("an output may drive many inputs: %v", err)
	}

	got, ok := g.Connection(a)
	if !ok || got != out {
		t.Errorf("Connection(a) = %s, %v", got, ok)
	}
	if conns := g.Connections(); len(conns) != 2 {
		t.Errorf("expected 2 connections, got %d", len(conns))
	}
}

func TestConnectReplacesExistingWire(t *testing.T) {
	g := New[string, kind, int]()
	first := addAdder(g, "first")
	second := addAdder(g, "second")
	dst := addAdder(g, "dst")

	a := mustInput(t, g, dst, "a")
	if err := g.Connect(mustOutput(t, g, first, "out"), a); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	secondOut := mustOutput(t, g, second, "out")
	if err := g.Connect(secondOut, a); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	got, _ := g.Connection(a)
	if got != secondOut {
		t.Errorf("expected input to be fed by the latest output")
	}
	if len(g.Connections()) != 1 {
		t.Errorf("an input holds at most one connection, got %d", len(g.Connections()))
	}
}

func TestConnectRejections(t *testing.T) {
	g := New[string, kind, int]()
	src := addAdder(g, "src")

	textNode := g.AddNode("text", "text")
	textIn := g.AddInputParam(textNode, "s", kindText, 0, ConnectionOrConstant, true)
	constIn := g.AddInputParam(textNode, "n", kindNumber, 0, ConstantOnly, true)

	out := mustOutput(t, g, src, "out")

	tests := []struct {
		name   string
		output OutputID
		input  InputID
		want   error
	}{
		{"incompatible types", out, textIn, ErrIncompatibleTypes},
		{"constant only input", out, constIn, ErrNotConnectable},
		{"missing output", "nope", textIn, ErrOutputNotFound},
		{"missing input", out, "nope", ErrInputNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.Connect(tt.output, tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("Connect() error = %v, want %v", err, tt.want)
			}
		})
	}

	if len(g.Connections()) != 0 {
		t.Errorf("rejected connections must not be stored")
	}
}

func TestDisconnect(t *testing.T) {
	g := New[string, kind, int]()
	src := addAdder(g, "src")
	dst := addAdder(g, "dst")
	out := mustOutput(t, g, src, "out")
	a := mustInput(t, g, dst, "a")

	if _, ok := g.Disconnect(a); ok {
		t.Error("expected no connection before Connect")
	}
	if err := g.Connect(out, a); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	got, ok := g.Disconnect(a)
	if !ok || got != out {
		t.Errorf("Disconnect() = %s, %v", got, ok)
	}
	if _, ok := g.Connection(a); ok {
		t.Error("connection should be gone")
	}
}

func TestRemoveNode(t *testing.T) {
	g := New[string, kind, int]()
	src := addAdder(g, "src")
	mid := addAdder(g, "mid")
	dst := addAdder(g, "dst")

	if err := g.Connect(mustOutput(t, g, src, "out"), mustInput(t, g, mid, "a")); err != nil {
		t.Fatal(err)
	}
	midOut := mustOutput(t, g, mid, "out")
	if err := g.Connect(midOut, mustInput(t, g, dst, "a")); err != nil {
		t.Fatal(err)
	}
	if err := g.Connect(midOut, mustInput(t, g, dst, "b")); err != nil {
		t.Fatal(err)
	}
	midIn := mustInput(t, g, mid, "a")

	removed, conns, err := g.RemoveNode(mid)
	if err != nil {
		t.Fatalf("RemoveNode failed: %v", err)
	}
	if removed.ID != mid {
		t.Errorf("removed wrong node %s", removed.ID)
	}
	if len(conns) != 3 {
		t.Errorf("expected 3 removed connections, got %d", len(conns))
	}
	if g.HasNode(mid) {
		t.Error("node should be gone")
	}
	if _, ok := g.Input(midIn); ok {
		t.Error("ports must not outlive their node")
	}
	if _, ok := g.Output(midOut); ok {
		t.Error("ports must not outlive their node")
	}
	if len(g.Connections()) != 0 {
		t.Errorf("expected no connections left, got %d", len(g.Connections()))
	}
	if g.Len() != 2 {
		t.Errorf("Len() = %d, want 2", g.Len())
	}

	if _, _, err := g.RemoveNode(mid); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("second RemoveNode error = %v, want ErrNodeNotFound", err)
	}
}

func TestNamedLookupErrors(t *testing.T) {
	g := New[string, kind, int]()
	id := addAdder(g, "n")

	if _, err := g.InputNamed(id, "zzz"); !errors.Is(err, ErrInputNotFound) {
		t.Errorf("unexpected error %v", err)
	}
	if _, err := g.OutputNamed(id, "zzz"); !errors.Is(err, ErrOutputNotFound) {
		t.Errorf("unexpected error %v", err)
	}
	if _, err := g.InputNamed("missing", "a"); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("unexpected error %v", err)
	}
}

func TestInputReturnsCopy(t *testing.T) {
	g := New[string, kind, int]()
	id := addAdder(g, "Add")
	a := mustInput(t, g, id, "a")

	in, _ := g.Input(a)
	in.Value = 42
	if got, _ := g.Input(a); got.Value != 0 {
		t.Fatalf("writing to a returned port changed the graph: %d", got.Value)
	}

	if err := g.SetInputValue(a, 7); err != nil {
		t.Fatalf("SetInputValue failed: %v", err)
	}
	if got, _ := g.Input(a); got.Value != 7 {
		t.Errorf("value = %d, want 7", got.Value)
	}
	if err := g.SetInputValue("missing", 1); !errors.Is(err, ErrInputNotFound) {
		t.Errorf("expected ErrInputNotFound, got %v", err)
	}
}

type taggedValue struct {
	tag kind
	n   int
}

func (v taggedValue) Kind() kind { return v.tag }

func TestSetInputValueKeepsTag(t *testing.T) {
	g := New[string, kind, taggedValue]()
	id := g.AddNode("Text", "text")
	in := g.AddInputParam(id, "s", kindText, taggedValue{tag: kindText}, ConstantOnly, true)

	if err := g.SetInputValue(in, taggedValue{tag: kindNumber, n: 3}); !errors.Is(err, ErrValueType) {
		t.Fatalf("expected ErrValueType, got %v", err)
	}
	if got, _ := g.Input(in); got.Value.tag != kindText {
		t.Errorf("rejected write changed the tag to %s", got.Value.tag)
	}
	if err := g.SetInputValue(in, taggedValue{tag: kindText, n: 3}); err != nil {
		t.Fatalf("SetInputValue failed: %v", err)
	}
}
