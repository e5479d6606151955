// Package value holds the typed runtime values carried by ports and the
// DataType tags used to check port compatibility.
package value

import (
	"encoding/json"
	"fmt"
)

// Vec2 is a two-component vector payload.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Field selects one component of a value for in-place editing.
type Field int

const (
	FieldScalar Field = iota
	FieldX
	FieldY
)

// Value is a tagged union holding either a scalar or a Vec2. The zero Value
// is the scalar 0.
type Value struct {
	kind   DataType
	scalar float64
	vec    Vec2
}

func Scalar(x float64) Value {
	return Value{kind: DataTypeScalar, scalar: x}
}

func Vector(x, y float64) Value {
	return Value{kind: DataTypeVec2, vec: Vec2{X: x, Y: y}}
}

func VectorOf(v Vec2) Value {
	return Value{kind: DataTypeVec2, vec: v}
}

// Default returns the zero payload for d.
func Default(d DataType) Value {
	switch d {
	case DataTypeVec2:
		return Vector(0, 0)
	default:
		return Scalar(0)
	}
}

// Kind returns the tag of v.
func (v Value) Kind() DataType {
	return v.kind
}

// AsScalar narrows v to its scalar payload. The receiver is a copy, so the
// caller's value is never aliased by the result.
func (v Value) AsScalar() (float64, error) {
	if v.kind != DataTypeScalar {
		return 0, &TypeMismatchError{Expected: DataTypeScalar, Actual: v.kind}
	}
	return v.scalar, nil
}

// AsVector narrows v to its Vec2 payload.
func (v Value) AsVector() (Vec2, error) {
	if v.kind != DataTypeVec2 {
		return Vec2{}, &TypeMismatchError{Expected: DataTypeVec2, Actual: v.kind}
	}
	return v.vec, nil
}

// SetScalar replaces the payload of a scalar value. The tag never changes.
func (v *Value) SetScalar(x float64) error {
	if v.kind != DataTypeScalar {
		return &TypeMismatchError{Expected: DataTypeScalar, Actual: v.kind}
	}
	v.scalar = x
	return nil
}

// SetVector replaces the payload of a vector value. The tag never changes.
func (v *Value) SetVector(vec Vec2) error {
	if v.kind != DataTypeVec2 {
		return &TypeMismatchError{Expected: DataTypeVec2, Actual: v.kind}
	}
	v.vec = vec
	return nil
}

// Nudge adds delta to one field of the payload, the way a drag-adjustable
// numeric field does.
func (v *Value) Nudge(f Field, delta float64) error {
	switch f {
	case FieldScalar:
		if v.kind != DataTypeScalar {
			return &TypeMismatchError{Expected: DataTypeScalar, Actual: v.kind}
		}
		v.scalar += delta
	case FieldX, FieldY:
		if v.kind != DataTypeVec2 {
			return &TypeMismatchError{Expected: DataTypeVec2, Actual: v.kind}
		}
		if f == FieldX {
			v.vec.X += delta
		} else {
			v.vec.Y += delta
		}
	default:
		return fmt.Errorf("value: unknown field %d", int(f))
	}
	return nil
}

// Fields lists the editable fields of v in display order.
func (v Value) Fields() []Field {
	if v.kind == DataTypeVec2 {
		return []Field{FieldX, FieldY}
	}
	return []Field{FieldScalar}
}

func (v Value) String() string {
	if v.kind == DataTypeVec2 {
		return fmt.Sprintf("(%g, %g)", v.vec.X, v.vec.Y)
	}
	return fmt.Sprintf("%g", v.scalar)
}

type wireValue struct {
	Type  DataType        `json:"type"`
	Value json.RawMessage `json:"value"`
}

func (v Value) MarshalJSON() ([]byte, error) {
	var (
		payload []byte
		err     error
	)
	if v.kind == DataTypeVec2 {
		payload, err = json.Marshal(v.vec)
	} else {
		payload, err = json.Marshal(v.scalar)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireValue{Type: v.kind, Value: payload})
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var w wireValue
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Type {
	case DataTypeScalar:
		var x float64
		if err := json.Unmarshal(w.Value, &x); err != nil {
			return fmt.Errorf("value: decode scalar: %w", err)
		}
		*v = Scalar(x)
	case DataTypeVec2:
		var vec Vec2
		if err := json.Unmarshal(w.Value, &vec); err != nil {
			return fmt.Errorf("value: decode vec2: %w", err)
		}
		*v = VectorOf(vec)
	default:
		return fmt.Errorf("value: invalid data type %d", int(w.Type))
	}
	return nil
}
