// Package columnar describes the columnar layout of a wire type: an ordered
// list of named columns drawn from a closed set of column types, tagged with
// the wire type it lays out. Descriptors are registration-time metadata for
// the catalog writer boundary; they never take part in wire encoding.
package columnar

import "fmt"

// ColumnType enumerates the closed set of supported column types.
type ColumnType int

const (
	// Int64 is a 64-bit signed integer column (timestamps, counters).
	Int64 ColumnType = iota + 1
	// Float64 is a 64-bit binary floating point column. Converting exact
	// decimal wire strings into it is lossy and reserved for columns that
	// opted in.
	Float64
	// String is a plain UTF-8 column.
	String
	// DictString8 is a dictionary-encoded UTF-8 column with 8-bit indices,
	// for low-cardinality values such as instrument identifiers.
	DictString8
	// DictString32 is a dictionary-encoded UTF-8 column with 32-bit indices.
	DictString32
)

// Valid reports whether t is one of the closed set.
func (t ColumnType) Valid() bool {
	return t >= Int64 && t <= DictString32
}

func (t ColumnType) String() string {
	switch t {
	case Int64:
		return "int64"
	case Float64:
		return "float64"
	case String:
		return "utf8"
	case DictString8:
		return "dictionary(int8, utf8)"
	case DictString32:
		return "dictionary(int32, utf8)"
	default:
		return fmt.Sprintf("ColumnType(%d)", int(t))
	}
}

// Field is one named column in a descriptor.
type Field struct {
	Name string
	Type ColumnType
}

// Descriptor is the immutable columnar layout of one wire type: the ordered
// fields plus the wire type tag carried as schema metadata.
type Descriptor struct {
	wireType string
	fields   []Field
}

// NewDescriptor validates and builds a descriptor. The field slice is copied,
// field names must be non-empty and unique, field types must come from the
// closed set.
func NewDescriptor(wireType string, fields []Field) (*Descriptor, error) {
	if wireType == "" {
		return nil, fmt.Errorf("columnar descriptor: empty wire type")
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("columnar descriptor %q: no fields", wireType)
	}
	seen := make(map[string]struct{}, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("columnar descriptor %q: field %d has empty name", wireType, i)
		}
		if !f.Type.Valid() {
			return nil, fmt.Errorf("columnar descriptor %q: field %q has invalid column type %d", wireType, f.Name, int(f.Type))
		}
		if _, dup := seen[f.Name]; dup {
			return nil, fmt.Errorf("columnar descriptor %q: duplicate field %q", wireType, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	owned := make([]Field, len(fields))
	copy(owned, fields)
	return &Descriptor{wireType: wireType, fields: owned}, nil
}

// MustDescriptor is NewDescriptor for statically known layouts; it panics on
// invalid input and is meant for package-level schema variables.
func MustDescriptor(wireType string, fields []Field) *Descriptor {
	d, err := NewDescriptor(wireType, fields)
	if err != nil {
		panic(err)
	}
	return d
}

// WireType returns the tag of the wire type this descriptor lays out.
func (d *Descriptor) WireType() string {
	return d.wireType
}

// Fields returns a copy of the ordered column list.
func (d *Descriptor) Fields() []Field {
	out := make([]Field, len(d.fields))
	copy(out, d.fields)
	return out
}

// NumFields returns the number of columns.
func (d *Descriptor) NumFields() int {
	return len(d.fields)
}

// Equal reports whether both descriptors have the same tag and the same
// ordered column list.
func (d *Descriptor) Equal(other *Descriptor) bool {
	if d == nil || other == nil {
		return d == other
	}
	if d.wireType != other.wireType || len(d.fields) != len(other.fields) {
		return false
	}
	for i, f := range d.fields {
		if other.fields[i] != f {
			return false
		}
	}
	return true
}
