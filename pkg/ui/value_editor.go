package ui

import (
	"fmt"
	"strings"

	"github.com/rmax-ai/velnode/pkg/value"
)

const (
	fineStep   = 0.1
	coarseStep = 1.0
)

// ValueEditor renders the local value of an input port as one text field per
// component, scalar "value" or vector "x" and "y". Field selects the component
// that nudges apply to.
type ValueEditor struct {
	Name    string
	Value   value.Value
	Field   int
	Focused bool
}

// Current returns the component under the cursor.
func (e ValueEditor) Current() value.Field {
	fields := e.Value.Fields()
	return fields[clamp(e.Field, 0, len(fields)-1)]
}

// Move shifts the field cursor by delta, staying within the value's fields.
func (e ValueEditor) Move(delta int) ValueEditor {
	e.Field = clamp(e.Field+delta, 0, len(e.Value.Fields())-1)
	return e
}

func (e ValueEditor) View() string {
	var sb strings.Builder
	fields := e.Value.Fields()
	cur := clamp(e.Field, 0, len(fields)-1)
	for i, f := range fields {
		if i > 0 {
			sb.WriteString(" ")
		}
		text := fmt.Sprintf("%s %s", fieldLabel(f), formatComponent(e.Value, f))
		if e.Focused && i == cur {
			sb.WriteString(focusedField.Render(text))
		} else {
			sb.WriteString(fieldStyle.Render(text))
		}
	}
	return sb.String()
}

func fieldLabel(f value.Field) string {
	switch f {
	case value.FieldX:
		return "x"
	case value.FieldY:
		return "y"
	default:
		return "="
	}
}

func formatComponent(v value.Value, f value.Field) string {
	switch f {
	case value.FieldX:
		vec, _ := v.AsVector()
		return fmt.Sprintf("%.3f", vec.X)
	case value.FieldY:
		vec, _ := v.AsVector()
		return fmt.Sprintf("%.3f", vec.Y)
	default:
		x, _ := v.AsScalar()
		return fmt.Sprintf("%.3f", x)
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}
