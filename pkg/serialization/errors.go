package serialization

import "errors"

var (
	// ErrMalformedWireValue is returned when a wire mapping is structurally
	// invalid for the requested decode: a required key is missing, a value
	// has an unexpected kind, or a nested document is not valid JSON.
	ErrMalformedWireValue = errors.New("malformed wire value")

	// ErrUnknownType is returned by a codec asked to decode a mapping whose
	// type tag does not match the codec.
	ErrUnknownType = errors.New("unknown wire type")

	// ErrUnregisteredType is returned by registry lookups for a type tag
	// that was never registered.
	ErrUnregisteredType = errors.New("unregistered wire type")

	// ErrDuplicateRegistration is returned when a wire type tag is
	// re-registered with a different codec or schema. Re-registering the
	// identical pair is a no-op.
	ErrDuplicateRegistration = errors.New("duplicate registration")
)
