package transport

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/halcyonmkt/marketdata-commons/pkg/serialization"
)

type jsonEnvelope struct {
	MessageID string                `json:"message_id"`
	Type      string                `json:"type"`
	Payload   serialization.Mapping `json:"payload"`
}

type jsonCodec struct{}

// NewJSONCodec returns the canonical JSON envelope codec. Payload mappings
// keep their canonical representation: integers stay integral, nested
// documents are embedded raw, absent optionals appear as explicit nulls.
func NewJSONCodec() Codec {
	return jsonCodec{}
}

func (jsonCodec) ContentType() string {
	return ContentTypeJSON
}

func (jsonCodec) Serialize(env Envelope) ([]byte, error) {
	data, err := json.Marshal(jsonEnvelope{
		MessageID: env.MessageID.String(),
		Type:      env.Type,
		Payload:   env.Payload,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize envelope: %w", err)
	}
	return data, nil
}

func (jsonCodec) Deserialize(data []byte) (Envelope, error) {
	var raw jsonEnvelope
	if err := json.Unmarshal(data, &raw); err != nil {
		return Envelope{}, fmt.Errorf("failed to deserialize envelope: %v: %w", err, serialization.ErrMalformedWireValue)
	}
	return assembleEnvelope(raw.MessageID, raw.Type, raw.Payload)
}

// assembleEnvelope validates decoded envelope pieces shared by all codecs:
// the message ID must parse, the payload must carry a tag consistent with
// the envelope's, and a tagless payload inherits the envelope tag.
func assembleEnvelope(messageID, tag string, payload serialization.Mapping) (Envelope, error) {
	id, err := uuid.Parse(messageID)
	if err != nil {
		return Envelope{}, fmt.Errorf("invalid envelope message id %q: %w", messageID, serialization.ErrMalformedWireValue)
	}
	if tag == "" {
		return Envelope{}, fmt.Errorf("envelope has no type tag: %w", serialization.ErrMalformedWireValue)
	}
	if payload == nil {
		return Envelope{}, fmt.Errorf("envelope has no payload: %w", serialization.ErrMalformedWireValue)
	}

	payloadTag, err := payload.Type()
	switch {
	case err != nil:
		payload[serialization.TypeKey] = tag
	case payloadTag != tag:
		return Envelope{}, fmt.Errorf("envelope tag %q does not match payload tag %q: %w",
			tag, payloadTag, serialization.ErrMalformedWireValue)
	}

	return Envelope{MessageID: id, Type: tag, Payload: payload}, nil
}
