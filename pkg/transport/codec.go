package transport

// Content types reported by the built-in codecs and carried as message
// headers on the bus.
const (
	ContentTypeJSON = "application/json"
	ContentTypeAvro = "application/avro"
)

// Serializer encodes envelopes to bytes. Implementations may use different
// formats; the content type identifies the format on the wire.
type Serializer interface {
	ContentType() string
	Serialize(env Envelope) ([]byte, error)
}

// Deserializer decodes bytes back into envelopes.
type Deserializer interface {
	ContentType() string
	Deserialize(data []byte) (Envelope, error)
}

// Codec is a symmetric Serializer/Deserializer pair.
type Codec interface {
	Serializer
	Deserializer
}
