// Package transport is the serialization boundary between the registry and
// an external message bus: wire mappings travel inside envelopes that carry
// a message ID and the type tag, encoded by pluggable codecs.
package transport

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/halcyonmkt/marketdata-commons/pkg/serialization"
)

// Envelope wraps one wire mapping for bus transport.
type Envelope struct {
	// MessageID uniquely identifies this message on the bus.
	MessageID uuid.UUID
	// Type duplicates the payload's type tag so routing never needs to
	// decode the payload.
	Type string
	// Payload is the flat wire mapping.
	Payload serialization.Mapping
}

// NewEnvelope wraps a wire mapping in a fresh envelope. The mapping must
// already carry its type tag.
func NewEnvelope(payload serialization.Mapping) (Envelope, error) {
	tag, err := payload.Type()
	if err != nil {
		return Envelope{}, fmt.Errorf("envelope payload: %w", err)
	}
	return Envelope{
		MessageID: uuid.New(),
		Type:      tag,
		Payload:   payload,
	}, nil
}
