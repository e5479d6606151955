package value

import (
	"fmt"
	"strings"
)

// DataType is the type tag carried by every port. Two ports may only be
// connected when their DataTypes are equal.
type DataType int

const (
	DataTypeScalar DataType = iota
	DataTypeVec2

	dataTypeCount
)

// Build fails here if a DataType is added without a name, slug and color.
var _ = [1]struct{}{}[len(dataTypeNames)-int(dataTypeCount)]
var _ = [1]struct{}{}[len(dataTypeSlugs)-int(dataTypeCount)]
var _ = [1]struct{}{}[len(dataTypeColors)-int(dataTypeCount)]

var dataTypeNames = [...]string{
	DataTypeScalar: "scalar",
	DataTypeVec2:   "2d vector",
}

var dataTypeSlugs = [...]string{
	DataTypeScalar: "scalar",
	DataTypeVec2:   "vec2",
}

var dataTypeColors = [...]Color{
	DataTypeScalar: {R: 38, G: 109, B: 211},
	DataTypeVec2:   {R: 238, G: 207, B: 109},
}

// Color is an opaque RGB display color.
type Color struct {
	R, G, B uint8
}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// DataTypes returns every DataType in declaration order.
func DataTypes() []DataType {
	return []DataType{DataTypeScalar, DataTypeVec2}
}

// Valid reports whether d is one of the declared DataTypes.
func (d DataType) Valid() bool {
	return d >= 0 && d < dataTypeCount
}

// Name returns the human-readable name shown next to a port.
func (d DataType) Name() string {
	if !d.Valid() {
		return fmt.Sprintf("DataType(%d)", int(d))
	}
	return dataTypeNames[d]
}

// Color returns the display color used for ports and wires of this type.
func (d DataType) Color() Color {
	if !d.Valid() {
		return Color{}
	}
	return dataTypeColors[d]
}

// String returns the stable slug ("scalar", "vec2").
func (d DataType) String() string {
	if !d.Valid() {
		return fmt.Sprintf("DataType(%d)", int(d))
	}
	return dataTypeSlugs[d]
}

func (d DataType) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("value: invalid data type %d", int(d))
	}
	return []byte(dataTypeSlugs[d]), nil
}

func (d *DataType) UnmarshalText(text []byte) error {
	parsed, err := ParseDataType(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDataType resolves a slug back to its DataType.
func ParseDataType(s string) (DataType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, slug := range dataTypeSlugs {
		if slug == s {
			return DataType(i), nil
		}
	}
	return 0, fmt.Errorf("value: unknown data type %q", s)
}

// Compatible reports whether an output of type output may drive an input of
// type input. There is no implicit widening.
func Compatible(output, input DataType) bool {
	return output == input
}
