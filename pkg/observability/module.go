// Package observability wires OpenTelemetry tracing and metrics providers
// into the application: OTLP/gRPC exporters, service resource attributes,
// runtime metrics and trace context propagation.
package observability

import (
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

type moduleOptions struct {
	static         *Config
	disableTracing bool
	disableMetrics bool
}

// Option configures the observability module.
type Option func(*moduleOptions)

// WithConfig provides a static Config instead of loading it from viper.
// Useful for tests.
func WithConfig(cfg Config) Option {
	return func(o *moduleOptions) { o.static = &cfg }
}

// WithDisableTracing disables tracing regardless of configuration.
func WithDisableTracing() Option {
	return func(o *moduleOptions) { o.disableTracing = true }
}

// WithDisableMetrics disables metrics regardless of configuration.
func WithDisableMetrics() Option {
	return func(o *moduleOptions) { o.disableMetrics = true }
}

// NewObservabilityModule provides trace.TracerProvider and
// metric.MeterProvider. Disabled signals yield noop providers so consumers
// never need nil checks. The config is read from the "observability" viper
// subtree unless WithConfig is used.
func NewObservabilityModule(opts ...Option) fx.Option {
	options := &moduleOptions{}
	for _, opt := range opts {
		opt(options)
	}

	configProvider := fx.Provide(func(v *viper.Viper) (Config, error) {
		cfg, err := NewConfig(v)
		if err != nil {
			return cfg, err
		}
		applyOverrides(&cfg, options)
		return cfg, nil
	})
	if options.static != nil {
		static := *options.static
		applyDefaults(&static)
		applyOverrides(&static, options)
		configProvider = fx.Provide(func() (Config, error) { return static, nil })
	}

	return fx.Module("observability",
		configProvider,
		fx.Provide(
			provideTracerProvider,
			provideMeterProvider,
		),
		fx.Invoke(func(trace.TracerProvider, metric.MeterProvider) {}),
	)
}

func applyOverrides(cfg *Config, options *moduleOptions) {
	if options.disableTracing {
		cfg.Tracing.Enabled = false
	}
	if options.disableMetrics {
		cfg.Metrics.Enabled = false
	}
}
