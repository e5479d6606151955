package value

import "testing"

func TestDataTypeNamesAndColors(t *testing.T) {
	names := make(map[string]DataType)
	colors := make(map[Color]DataType)

	for _, d := range DataTypes() {
		name := d.Name()
		if name == "" {
			t.Errorf("DataType %d has an empty name", int(d))
		}
		if other, ok := names[name]; ok {
			t.Errorf("name %q shared by %v and %v", name, other, d)
		}
		names[name] = d

		c := d.Color()
		if other, ok := colors[c]; ok {
			t.Errorf("color %s shared by %v and %v", c.Hex(), other, d)
		}
		colors[c] = d
	}

	if len(names) != 2 {
		t.Fatalf("expected 2 data types, got %d", len(names))
	}
}

func TestDataTypeDisplay(t *testing.T) {
	tests := []struct {
		d    DataType
		name string
		hex  string
	}{
		{DataTypeScalar, "scalar", "#266dd3"},
		{DataTypeVec2, "2d vector", "#eecf6d"},
	}

	for _, tt := range tests {
		t.Run(tt.d.String(), func(t *testing.T) {
			if got := tt.d.Name(); got != tt.name {
				t.Errorf("Name() = %q, want %q", got, tt.name)
			}
			if got := tt.d.Color().Hex(); got != tt.hex {
				t.Errorf("Color().Hex() = %q, want %q", got, tt.hex)
			}
		})
	}
}

func TestCompatible(t *testing.T) {
	for _, out := range DataTypes() {
		for _, in := range DataTypes() {
			want := out == in
			if got := Compatible(out, in); got != want {
				t.Errorf("Compatible(%v, %v) = %v, want %v", out, in, got, want)
			}
		}
	}
}

func TestParseDataType(t *testing.T) {
	for _, d := range DataTypes() {
		got, err := ParseDataType(d.String())
		if err != nil {
			t.Fatalf("ParseDataType(%q) failed: %v", d.String(), err)
		}
		if got != d {
			t.Errorf("ParseDataType(%q) = %v, want %v", d.String(), got, d)
		}
	}

	if _, err := ParseDataType("matrix"); err == nil {
		t.Error("expected error for unknown data type")
	}
}

func TestInvalidDataType(t *testing.T) {
	d := DataType(42)
	if d.Valid() {
		t.Fatal("DataType(42) should not be valid")
	}
	if d.Name() != "DataType(42)" {
		t.Errorf("unexpected name %q", d.Name())
	}
	if _, err := d.MarshalText(); err == nil {
		t.Error("expected MarshalText to fail for invalid data type")
	}
}
