package columnar

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/samber/lo"
)

// TypeMetadataKey is the Arrow schema metadata key carrying the wire type
// tag.
const TypeMetadataKey = "type"

// Arrow materializes the descriptor as an Apache Arrow schema. Every column
// is nullable and the wire type tag is attached as schema metadata under
// TypeMetadataKey.
func (d *Descriptor) Arrow() *arrow.Schema {
	fields := lo.Map(d.fields, func(f Field, _ int) arrow.Field {
		return arrow.Field{
			Name:     f.Name,
			Type:     arrowType(f.Type),
			Nullable: true,
		}
	})
	md := arrow.NewMetadata([]string{TypeMetadataKey}, []string{d.wireType})
	return arrow.NewSchema(fields, &md)
}

func arrowType(t ColumnType) arrow.DataType {
	switch t {
	case Int64:
		return arrow.PrimitiveTypes.Int64
	case Float64:
		return arrow.PrimitiveTypes.Float64
	case String:
		return arrow.BinaryTypes.String
	case DictString8:
		return &arrow.DictionaryType{IndexType: arrow.PrimitiveTypes.Int8, ValueType: arrow.BinaryTypes.String}
	case DictString32:
		return &arrow.DictionaryType{IndexType: arrow.PrimitiveTypes.Int32, ValueType: arrow.BinaryTypes.String}
	default:
		panic("unreachable: descriptor fields are validated at construction")
	}
}
