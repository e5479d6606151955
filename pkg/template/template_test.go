package template

import (
	"testing"

	"github.com/rmax-ai/velnode/pkg/graph"
	"github.com/rmax-ai/velnode/pkg/value"
)

type port struct {
	name string
	typ  value.DataType
	def  value.Value
}

func TestBuildPortTable(t *testing.T) {
	s, v := value.DataTypeScalar, value.DataTypeVec2
	zs, zv := value.Scalar(0), value.Vector(0, 0)

	tests := []struct {
		template Template
		inputs   []port
		outputs  []port
	}{
		{MakeScalar, []port{{"value", s, zs}}, []port{{"out", s, zs}}},
		{MakeVector, []port{{"x", s, zs}, {"y", s, zs}}, []port{{"out", v, zv}}},
		{AddScalar, []port{{"A", s, zs}, {"B", s, zs}}, []port{{"out", s, zs}}},
		{SubtractScalar, []port{{"A", s, zs}, {"B", s, zs}}, []port{{"out", s, zs}}},
		{AddVector, []port{{"v1", v, zv}, {"v2", v, zv}}, []port{{"out", v, zv}}},
		{SubtractVector, []port{{"v1", v, zv}, {"v2", v, zv}}, []port{{"out", v, zv}}},
		{VectorTimesScalar, []port{{"scalar", s, zs}, {"vector", v, zv}}, []port{{"out", v, zv}}},
	}

	for _, tt := range tests {
		t.Run(tt.template.Slug(), func(t *testing.T) {
			g := graph.New[NodeData, value.DataType, value.Value]()
			id := g.AddNode(tt.template.GraphLabel(), tt.template.UserData())
			tt.template.Build(g, id)

			n, _ := g.Node(id)
			if len(n.Inputs) != len(tt.inputs) {
				t.Fatalf("expected %d inputs, got %d", len(tt.inputs), len(n.Inputs))
			}
			for i, want := range tt.inputs {
				in, ok := g.Input(n.Inputs[i].ID)
				if !ok {
					t.Fatalf("input %d missing", i)
				}
				if in.Name != want.name || in.Type != want.typ || in.Value != want.def {
					t.Errorf("input %d = %s:%v=%v, want %s:%v=%v", i, in.Name, in.Type, in.Value, want.name, want.typ, want.def)
				}
				if in.Kind != graph.ConnectionOrConstant {
					t.Errorf("input %q kind = %v, want connection_or_constant", in.Name, in.Kind)
				}
				if in.Value.Kind() != in.Type {
					t.Errorf("input %q holds a %v value on a %v port", in.Name, in.Value.Kind(), in.Type)
				}
			}

			if len(n.Outputs) != len(tt.outputs) {
				t.Fatalf("expected %d outputs, got %d", len(tt.outputs), len(n.Outputs))
			}
			for i, want := range tt.outputs {
				out, _ := g.Output(n.Outputs[i].ID)
				if out.Name != want.name || out.Type != want.typ {
					t.Errorf("output %d = %s:%v, want %s:%v", i, out.Name, out.Type, want.name, want.typ)
				}
			}

			if n.UserData.Template() != tt.template {
				t.Errorf("UserData().Template() = %v, want %v", n.UserData.Template(), tt.template)
			}
		})
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	for _, tmpl := range All() {
		g := graph.New[NodeData, value.DataType, value.Value]()
		first := g.AddNode(tmpl.GraphLabel(), tmpl.UserData())
		tmpl.Build(g, first)
		second := g.AddNode(tmpl.GraphLabel(), tmpl.UserData())
		tmpl.Build(g, second)

		a, _ := g.Node(first)
		b, _ := g.Node(second)
		if len(a.Inputs) != len(b.Inputs) || len(a.Outputs) != len(b.Outputs) {
			t.Fatalf("%v: port counts differ", tmpl)
		}
		for i := range a.Inputs {
			ia, _ := g.Input(a.Inputs[i].ID)
			ib, _ := g.Input(b.Inputs[i].ID)
			if ia.Name != ib.Name || ia.Type != ib.Type || ia.Value != ib.Value || ia.Kind != ib.Kind {
				t.Errorf("%v: input %d differs: %+v vs %+v", tmpl, i, ia, ib)
			}
			if ia.Node != first || ib.Node != second {
				t.Errorf("%v: input %d attached to the wrong node", tmpl, i)
			}
		}
		for i := range a.Outputs {
			oa, _ := g.Output(a.Outputs[i].ID)
			ob, _ := g.Output(b.Outputs[i].ID)
			if oa.Name != ob.Name || oa.Type != ob.Type {
				t.Errorf("%v: output %d differs", tmpl, i)
			}
		}
	}
}

func TestAll(t *testing.T) {
	all := All()
	want := []Template{MakeScalar, MakeVector, AddScalar, SubtractScalar, AddVector, SubtractVector, VectorTimesScalar}
	if len(all) != 7 {
		t.Fatalf("expected 7 templates, got %d", len(all))
	}
	seen := make(map[Template]bool)
	for i, tmpl := range all {
		if tmpl != want[i] {
			t.Errorf("All()[%d] = %v, want %v", i, tmpl, want[i])
		}
		if seen[tmpl] {
			t.Errorf("%v listed twice", tmpl)
		}
		seen[tmpl] = true
	}
	for tmpl := range templateCount {
		if !seen[tmpl] {
			t.Errorf("%v missing from All()", tmpl)
		}
	}

	all[0] = SubtractVector
	if All()[0] != MakeScalar {
		t.Error("All() must return a fresh slice")
	}
}

func TestLabels(t *testing.T) {
	want := map[Template]string{
		MakeVector:        "New vector",
		MakeScalar:        "New scalar",
		AddScalar:         "Scalar add",
		SubtractScalar:    "Scalar subtract",
		VectorTimesScalar: "Vector times scalar",
		AddVector:         "Vector add",
		SubtractVector:    "Vector subtract",
	}
	for _, tmpl := range All() {
		if tmpl.Label() != want[tmpl] {
			t.Errorf("%v Label() = %q, want %q", tmpl, tmpl.Label(), want[tmpl])
		}
		if tmpl.GraphLabel() != tmpl.Label() {
			t.Errorf("%v GraphLabel() = %q", tmpl, tmpl.GraphLabel())
		}
	}
}

func TestParse(t *testing.T) {
	for _, tmpl := range All() {
		bySlug, err := Parse(tmpl.Slug())
		if err != nil || bySlug != tmpl {
			t.Errorf("Parse(%q) = %v, %v", tmpl.Slug(), bySlug, err)
		}
		byLabel, err := Parse(tmpl.Label())
		if err != nil || byLabel != tmpl {
			t.Errorf("Parse(%q) = %v, %v", tmpl.Label(), byLabel, err)
		}
	}
	if _, err := Parse("make_matrix"); err == nil {
		t.Error("expected error for unknown template")
	}
}

func TestInvalidTemplate(t *testing.T) {
	bad := Template(99)
	if bad.Valid() {
		t.Fatal("Template(99) should be invalid")
	}
	if _, err := bad.MarshalText(); err == nil {
		t.Error("expected MarshalText to fail")
	}
	defer func() {
		if recover() == nil {
			t.Error("expected Build to panic on an invalid template")
		}
	}()
	g := graph.New[NodeData, value.DataType, value.Value]()
	bad.Build(g, g.AddNode("bad", NodeData{}))
}
