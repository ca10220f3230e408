package redis

import (
	"context"

	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/halcyonmkt/marketdata-commons/pkg/cache"
	"github.com/halcyonmkt/marketdata-commons/pkg/health"
)

// ComponentName is the readiness registration name.
const ComponentName = "redis-store"

type moduleOptions struct {
	static *Config
}

// Option configures the redis module.
type Option func(*moduleOptions)

// WithConfig provides a static Config instead of reading it from viper.
// Useful for tests.
func WithConfig(cfg Config) Option {
	return func(o *moduleOptions) { o.static = &cfg }
}

// NewRedisModule provides the redis-backed cache.Store. The client dials
// lazily; the start hook pings with backoff and marks the component ready.
func NewRedisModule(opts ...Option) fx.Option {
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

	return fx.Module("cache-redis",
		configProvider,
		fx.Provide(provideStore),
	)
}

func provideStore(lc fx.Lifecycle, conf Config, components health.ComponentManager, mp metric.MeterProvider, log *zap.Logger) (cache.Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})
	store := NewStore(client, conf, log)

	instrumented, err := cache.Instrument(store, "redis", mp)
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	markReady := components.AddComponent(ComponentName)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := store.ping(ctx); err != nil {
				return err
			}
			log.Info("connected to redis", zap.String("addr", conf.Addr), zap.Int("db", conf.DB))
			markReady()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return store.Close(ctx)
		},
	})

	return instrumented, nil
}
