package transport

import "go.uber.org/fx"

// NewTransportModule provides the default bus codec. JSON is the default;
// use WithAvroCodec to switch the whole transport to the Avro envelope
// format.
func NewTransportModule(opts ...Option) fx.Option {
	options := &moduleOptions{codec: NewJSONCodec()}
	for _, opt := range opts {
		opt(options)
	}

	codec := options.codec
	return fx.Module("transport",
		fx.Provide(
			func() Codec { return codec },
			func(c Codec) Serializer { return c },
			func(c Codec) Deserializer { return c },
		),
	)
}

type moduleOptions struct {
	codec Codec
}

// Option configures the transport module.
type Option func(*moduleOptions)

// WithAvroCodec switches the bus codec to the Avro envelope format.
func WithAvroCodec() Option {
	return func(o *moduleOptions) { o.codec = NewAvroCodec() }
}

// WithCodec installs a custom codec.
func WithCodec(c Codec) Option {
	return func(o *moduleOptions) { o.codec = c }
}
