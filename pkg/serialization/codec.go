// Package serialization defines the wire-mapping codec contract and the
// process-wide registry that binds wire type tags to codecs and columnar
// schemas. Implementations for concrete domain types live in pkg/marketdata.
package serialization

// TypeKey is the reserved mapping key carrying the wire type tag.
const TypeKey = "type"

// Serializable is implemented by every domain value that can cross the
// wire-mapping boundary. Values are self-describing: they know their own
// wire type tag.
type Serializable interface {
	// WireType returns the canonical wire type tag (e.g. "TickerSnapshot").
	WireType() string
}

// Codec converts one domain type to and from its flat wire mapping.
//
// Encode must stamp the type tag under TypeKey and must emit explicit nil
// for absent optional fields, never omit the key. Decode is the left
// inverse of Encode for every valid value and must tolerate mappings where
// an optional key is missing instead of nil.
type Codec interface {
	// WireType returns the tag this codec handles.
	WireType() string
	// Encode converts a domain value to its wire mapping.
	Encode(v Serializable) (Mapping, error)
	// Decode reconstructs the domain value from a wire mapping.
	//
	// Returns an error wrapping ErrMalformedWireValue when a required key
	// is missing or a value has the wrong shape, and ErrUnknownType when
	// the mapping's tag does not match WireType.
	Decode(m Mapping) (Serializable, error)
}
