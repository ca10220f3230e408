package observability

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultMetricsInterval is the default metrics export interval.
	DefaultMetricsInterval = 10 * time.Second

	// DefaultShutdownTimeout bounds provider shutdown during teardown.
	DefaultShutdownTimeout = 5 * time.Second

	// DefaultRuntimeStatsInterval is the minimum interval between runtime
	// memstats reads.
	DefaultRuntimeStatsInterval = time.Second

	// TracingComponentName is the readiness registration name for tracing.
	TracingComponentName = "tracing"

	// MetricsComponentName is the readiness registration name for metrics.
	MetricsComponentName = "metrics"
)

// Config holds observability configuration.
type Config struct {
	OtelCollectorEndpoint string        `mapstructure:"otel-collector-endpoint"`
	Tracing               TracingConfig `mapstructure:"tracing"`
	Metrics               MetricsConfig `mapstructure:"metrics"`
}

// TracingConfig holds tracing-specific configuration.
type TracingConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// MetricsConfig holds metrics-specific configuration.
type MetricsConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

// NewConfig loads observability configuration from the "observability"
// subtree. A missing subtree yields a disabled config.
func NewConfig(v *viper.Viper) (Config, error) {
	var cfg Config
	if sub := v.Sub("observability"); sub != nil {
		if err := sub.Unmarshal(&cfg); err != nil {
			return cfg, fmt.Errorf("failed to load observability config: %w", err)
		}
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Metrics.Interval == 0 {
		cfg.Metrics.Interval = DefaultMetricsInterval
	}
}
