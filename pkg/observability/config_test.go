package observability

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_MissingSubtreeDisablesEverything(t *testing.T) {
	cfg, err := NewConfig(viper.New())

	require.NoError(t, err)
	assert.False(t, cfg.Tracing.Enabled)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, DefaultMetricsInterval, cfg.Metrics.Interval)
}

func TestNewConfig_ReadsSubtree(t *testing.T) {
	v := viper.New()
	v.Set("observability.otel-collector-endpoint", "collector:4317")
	v.Set("observability.tracing.enabled", true)
	v.Set("observability.metrics.enabled", true)
	v.Set("observability.metrics.interval", "30s")

	cfg, err := NewConfig(v)

	require.NoError(t, err)
	assert.Equal(t, "collector:4317", cfg.OtelCollectorEndpoint)
	assert.True(t, cfg.Tracing.Enabled)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Metrics.Interval)
}

func TestNewConfig_DefaultInterval(t *testing.T) {
	v := viper.New()
	v.Set("observability.metrics.enabled", true)

	cfg, err := NewConfig(v)

	require.NoError(t, err)
	assert.Equal(t, DefaultMetricsInterval, cfg.Metrics.Interval)
}

func TestApplyOverrides(t *testing.T) {
	cfg := Config{
		Tracing: TracingConfig{Enabled: true},
		Metrics: MetricsConfig{Enabled: true},
	}

	applyOverrides(&cfg, &moduleOptions{disableTracing: true, disableMetrics: true})

	assert.False(t, cfg.Tracing.Enabled)
	assert.False(t, cfg.Metrics.Enabled)
}
