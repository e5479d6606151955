// Package template is the catalog of node kinds a user can instantiate. Each
// Template knows its labels and deterministically builds its ports into a
// freshly allocated node.
package template

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rmax-ai/velnode/pkg/graph"
	"github.com/rmax-ai/velnode/pkg/value"
)

// Graph is the container instantiated with this catalog's node payload, port
// type and port value.
type Graph = graph.Graph[NodeData, value.DataType, value.Value]

// Template is a stateless node kind.
type Template int

const (
	MakeVector Template = iota
	MakeScalar
	AddScalar
	SubtractScalar
	VectorTimesScalar
	AddVector
	SubtractVector

	templateCount
)

// Build fails here if a Template is added without an entry in every table.
var _ = [1]struct{}{}[len(labels)-int(templateCount)]
var _ = [1]struct{}{}[len(slugs)-int(templateCount)]
var _ = [1]struct{}{}[len(shapes)-int(templateCount)]

var labels = [...]string{
	MakeVector:        "New vector",
	MakeScalar:        "New scalar",
	AddScalar:         "Scalar add",
	SubtractScalar:    "Scalar subtract",
	VectorTimesScalar: "Vector times scalar",
	AddVector:         "Vector add",
	SubtractVector:    "Vector subtract",
}

var slugs = [...]string{
	MakeVector:        "make_vector",
	MakeScalar:        "make_scalar",
	AddScalar:         "add_scalar",
	SubtractScalar:    "subtract_scalar",
	VectorTimesScalar: "vector_times_scalar",
	AddVector:         "add_vector",
	SubtractVector:    "subtract_vector",
}

// All returns the catalog in the order a node finder lists it.
func All() []Template {
	return []Template{
		MakeScalar,
		MakeVector,
		AddScalar,
		SubtractScalar,
		AddVector,
		SubtractVector,
		VectorTimesScalar,
	}
}

// Valid reports whether t is one of the declared templates.
func (t Template) Valid() bool {
	return t >= 0 && t < templateCount
}

// Label is the name shown in the node finder.
func (t Template) Label() string {
	if !t.Valid() {
		return fmt.Sprintf("Template(%d)", int(t))
	}
	return labels[t]
}

// GraphLabel is the title given to a node built from t.
func (t Template) GraphLabel() string {
	return t.Label()
}

// Slug is the stable machine name used by textual hosts.
func (t Template) Slug() string {
	if !t.Valid() {
		return fmt.Sprintf("template_%d", int(t))
	}
	return slugs[t]
}

func (t Template) String() string {
	return t.Slug()
}

func (t Template) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTemplate, int(t))
	}
	return []byte(slugs[t]), nil
}

func (t *Template) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ErrUnknownTemplate is returned for names and values outside the catalog.
var ErrUnknownTemplate = errors.New("template: unknown template")

// Parse resolves a slug ("make_scalar") or a finder label ("New scalar").
func Parse(s string) (Template, error) {
	s = strings.TrimSpace(s)
	for i := range templateCount {
		if strings.EqualFold(s, slugs[i]) || strings.EqualFold(s, labels[i]) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTemplate, s)
}

// UserData returns the payload attached to a node built from t.
func (t Template) UserData() NodeData {
	return NodeData{template: t}
}

// NodeData is the per-node payload recording the template a node was built
// from. It cannot be changed after construction.
type NodeData struct {
	template Template
}

// Template returns the template the node was built from.
func (d NodeData) Template() Template {
	return d.template
}

func (d NodeData) MarshalText() ([]byte, error) {
	return d.template.MarshalText()
}
