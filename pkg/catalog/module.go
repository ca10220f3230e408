package catalog

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/halcyonmkt/marketdata-commons/pkg/serialization"
)

type moduleOptions struct {
	static *Config
	writer BatchWriter
}

// Option configures the catalog module.
type Option func(*moduleOptions)

// WithConfig provides a static Config instead of reading it from viper.
// Useful for tests.
func WithConfig(cfg Config) Option {
	return func(o *moduleOptions) { o.static = &cfg }
}

// WithWriter binds a batch writer built outside the container. Hosts that
// construct their writer through fx provide it themselves instead.
func WithWriter(w BatchWriter) Option {
	return func(o *moduleOptions) { o.writer = w }
}

// NewCatalogModule provides the *Appender. The stop hook flushes whatever
// is still buffered.
func NewCatalogModule(opts ...Option) fx.Option {
	options := &moduleOptions{}
	for _, opt := range opts {
		opt(options)
	}

	configProvider := fx.Provide(NewConfig)
	if options.static != nil {
		static := *options.static
		applyDefaults(&static)
		configProvider = fx.Provide(func() (Config, error) { return static, nil })
	}

	moduleOpts := []fx.Option{
		configProvider,
		fx.Provide(provideAppender),
	}
	if options.writer != nil {
		writer := options.writer
		moduleOpts = append(moduleOpts, fx.Provide(func() BatchWriter { return writer }))
	}

	return fx.Module("catalog", moduleOpts...)
}

func provideAppender(lc fx.Lifecycle, registry *serialization.Registry, writer BatchWriter, conf Config, mp metric.MeterProvider, log *zap.Logger) (*Appender, error) {
	appender, err := NewAppender(registry, writer, conf, mp, log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return appender.Close(ctx)
		},
	})
	return appender, nil
}
