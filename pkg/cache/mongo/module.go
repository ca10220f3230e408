package mongo

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/halcyonmkt/marketdata-commons/pkg/cache"
	"github.com/halcyonmkt/marketdata-commons/pkg/health"
)

// ComponentName is the readiness registration name.
const ComponentName = "mongo-store"

type moduleOptions struct {
	static *Config
}

// Option configures the mongo module.
type Option func(*moduleOptions)

// WithConfig provides a static Config instead of reading it from viper.
// Useful for tests.
func WithConfig(cfg Config) Option {
	return func(o *moduleOptions) { o.static = &cfg }
}

// NewMongoModule provides the mongodb-backed cache.Store. The connection is
// validated and the type index created on start.
func NewMongoModule(opts ...Option) fx.Option {
	options := &moduleOptions{}
	for _, opt := range opts {
		opt(options)
	}

	configProvider := fx.Provide(NewConfig)
	if options.static != nil {
		static := *options.static
		configProvider = fx.Provide(func() (Config, error) {
			applyDefaults(&static)
			return static, static.Validate()
		})
	}

	return fx.Module("cache-mongo",
		configProvider,
		fx.Provide(provideStore),
	)
}

func provideStore(lc fx.Lifecycle, conf Config, components health.ComponentManager, mp metric.MeterProvider, log *zap.Logger) (cache.Store, error) {
	store, err := NewStore(conf, log)
	if err != nil {
		return nil, err
	}

	instrumented, err := cache.Instrument(store, "mongo", mp)
	if err != nil {
		return nil, err
	}

	markReady := components.AddComponent(ComponentName)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := store.Connect(ctx); err != nil {
				return err
			}
			markReady()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return store.Close(ctx)
		},
	})

	return instrumented, nil
}
