package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/halcyonmkt/marketdata-commons/pkg/serialization"
	"github.com/halcyonmkt/marketdata-commons/pkg/serialization/columnar"
)

// Builder accumulates wire mappings of one type into an Arrow record batch
// following the type's columnar descriptor. Missing and explicitly null
// values become column nulls. Not safe for concurrent use.
type Builder struct {
	desc   *columnar.Descriptor
	fields []columnar.Field
	rb     *array.RecordBuilder
	rows   int
}

// NewBuilder creates a builder for the descriptor's layout. A nil allocator
// falls back to the default allocator. Release must be called once the
// builder is no longer needed.
func NewBuilder(mem memory.Allocator, desc *columnar.Descriptor) *Builder {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	return &Builder{
		desc:   desc,
		fields: desc.Fields(),
		rb:     array.NewRecordBuilder(mem, desc.Arrow()),
	}
}

// Schema returns the Arrow schema rows are laid out against.
func (b *Builder) Schema() *arrow.Schema {
	return b.rb.Schema()
}

// Len returns the number of buffered rows.
func (b *Builder) Len() int {
	return b.rows
}

// Append adds one wire mapping as a row. The mapping's tag must match the
// descriptor; cell values are converted per column type, with exact-decimal
// strings narrowed to float64 only on Float64 columns. The row is appended
// atomically: a conversion error leaves the builder unchanged.
func (b *Builder) Append(m serialization.Mapping) error {
	cells, err := b.convert(m)
	if err != nil {
		return err
	}
	return b.appendCells(cells)
}

// NewRecord seals the buffered rows into a record and resets the builder.
// The caller owns the record and must Release it.
func (b *Builder) NewRecord() arrow.Record {
	b.rows = 0
	return b.rb.NewRecord()
}

// Release frees the underlying column builders.
func (b *Builder) Release() {
	b.rb.Release()
}

// cell is a row value converted to its physical column kind.
type cell struct {
	null bool
	i    int64
	f    float64
	s    string
}

func (b *Builder) convert(m serialization.Mapping) ([]cell, error) {
	tag, err := m.Type()
	if err != nil {
		return nil, err
	}
	if tag != b.desc.WireType() {
		return nil, fmt.Errorf("catalog row has wire type %q, builder lays out %q: %w",
			tag, b.desc.WireType(), serialization.ErrUnknownType)
	}

	cells := make([]cell, len(b.fields))
	for i, f := range b.fields {
		v, ok := m[f.Name]
		if !ok || v == nil {
			cells[i] = cell{null: true}
			continue
		}
		c, err := convertCell(f, v)
		if err != nil {
			return nil, err
		}
		cells[i] = c
	}
	return cells, nil
}

func (b *Builder) appendCells(cells []cell) error {
	for i, c := range cells {
		fb := b.rb.Field(i)
		if c.null {
			fb.AppendNull()
			continue
		}
		switch f := b.fields[i]; f.Type {
		case columnar.Int64:
			fb.(*array.Int64Builder).Append(c.i)
		case columnar.Float64:
			fb.(*array.Float64Builder).Append(c.f)
		case columnar.String:
			fb.(*array.StringBuilder).Append(c.s)
		case columnar.DictString8, columnar.DictString32:
			if err := fb.(*array.BinaryDictionaryBuilder).AppendString(c.s); err != nil {
				return fmt.Errorf("catalog append %q: %w", f.Name, err)
			}
		}
	}
	b.rows++
	return nil
}

func convertCell(f columnar.Field, v any) (cell, error) {
	switch f.Type {
	case columnar.Int64:
		i, err := asInt64(f.Name, v)
		if err != nil {
			return cell{}, err
		}
		return cell{i: i}, nil
	case columnar.Float64:
		fv, err := asFloat64(f.Name, v)
		if err != nil {
			return cell{}, err
		}
		return cell{f: fv}, nil
	case columnar.String:
		s, err := asText(f.Name, v)
		if err != nil {
			return cell{}, err
		}
		return cell{s: s}, nil
	case columnar.DictString8, columnar.DictString32:
		s, ok := v.(string)
		if !ok {
			return cell{}, fmt.Errorf("column %q: expected string, got %T: %w",
				f.Name, v, serialization.ErrMalformedWireValue)
		}
		return cell{s: s}, nil
	default:
		return cell{}, fmt.Errorf("column %q: unsupported column type %v", f.Name, f.Type)
	}
}

func asInt64(name string, v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("column %q: non-integral number %q: %w", name, n.String(), serialization.ErrMalformedWireValue)
		}
		return i, nil
	case float64:
		i := int64(n)
		if float64(i) != n {
			return 0, fmt.Errorf("column %q: non-integral number %v: %w", name, n, serialization.ErrMalformedWireValue)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("column %q: expected int64, got %T: %w", name, v, serialization.ErrMalformedWireValue)
	}
}

// asFloat64 narrows to binary floating point. Exact-decimal wire strings
// lose precision here; only columns declared Float64 opted into that.
func asFloat64(name string, v any) (float64, error) {
	switch n := v.(type) {
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("column %q: invalid decimal string %q: %w", name, n, serialization.ErrMalformedWireValue)
		}
		return f, nil
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("column %q: invalid number %q: %w", name, n.String(), serialization.ErrMalformedWireValue)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("column %q: expected number, got %T: %w", name, v, serialization.ErrMalformedWireValue)
	}
}

// asText accepts plain strings and nested documents rendered as text. Plain
// String columns are the only place free-form blobs land.
func asText(name string, v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	case json.RawMessage:
		return string(s), nil
	default:
		return "", fmt.Errorf("column %q: expected string, got %T: %w", name, v, serialization.ErrMalformedWireValue)
	}
}
