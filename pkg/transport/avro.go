package transport

import (
	"encoding/json"
	"fmt"

	"github.com/hamba/avro/v2"

	"github.com/halcyonmkt/marketdata-commons/pkg/serialization"
)

// envelopeSchema is the fixed Avro schema for bus envelopes. The payload
// travels as the canonical JSON bytes of the wire mapping so exact-decimal
// strings and nested documents survive unchanged.
const envelopeSchema = `{
	"type": "record",
	"name": "Envelope",
	"namespace": "marketdata.transport",
	"fields": [
		{"name": "message_id", "type": "string"},
		{"name": "type", "type": "string"},
		{"name": "payload", "type": "bytes"}
	]
}`

type avroEnvelope struct {
	MessageID string `avro:"message_id"`
	Type      string `avro:"type"`
	Payload   []byte `avro:"payload"`
}

type avroCodec struct {
	schema avro.Schema
}

// NewAvroCodec returns the Avro envelope codec.
func NewAvroCodec() Codec {
	return avroCodec{schema: avro.MustParse(envelopeSchema)}
}

func (avroCodec) ContentType() string {
	return ContentTypeAvro
}

func (c avroCodec) Serialize(env Envelope) ([]byte, error) {
	payload, err := json.Marshal(env.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize envelope payload: %w", err)
	}

	data, err := avro.Marshal(c.schema, avroEnvelope{
		MessageID: env.MessageID.String(),
		Type:      env.Type,
		Payload:   payload,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal avro envelope: %w", err)
	}
	return data, nil
}

func (c avroCodec) Deserialize(data []byte) (Envelope, error) {
	var raw avroEnvelope
	if err := avro.Unmarshal(c.schema, data, &raw); err != nil {
		return Envelope{}, fmt.Errorf("failed to unmarshal avro envelope: %v: %w", err, serialization.ErrMalformedWireValue)
	}

	var payload serialization.Mapping
	if err := json.Unmarshal(raw.Payload, &payload); err != nil {
		return Envelope{}, fmt.Errorf("failed to deserialize envelope payload: %v: %w", err, serialization.ErrMalformedWireValue)
	}

	return assembleEnvelope(raw.MessageID, raw.Type, payload)
}
