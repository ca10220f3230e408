package logging

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewConfig_Defaults(t *testing.T) {
	v := viper.New()

	cfg, err := NewConfig(v)

	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, cfg.Level)
	assert.Equal(t, zapcore.ErrorLevel, cfg.StacktraceLevel)
	assert.False(t, cfg.Development)
}

func TestNewConfig_FromViperSubtree(t *testing.T) {
	v := viper.New()
	v.Set("logging.level", "debug")
	v.Set("logging.development", true)
	v.Set("logging.outputPaths", []string{"stdout"})
	v.Set("logging.stacktraceLevel", "warn")

	cfg, err := NewConfig(v)

	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, cfg.Level)
	assert.True(t, cfg.Development)
	assert.Equal(t, []string{"stdout"}, cfg.OutputPaths)
	assert.Equal(t, zapcore.WarnLevel, cfg.StacktraceLevel)
}

func TestNewConfig_InvalidLevel(t *testing.T) {
	v := viper.New()
	v.Set("logging.level", "chatty")

	_, err := NewConfig(v)

	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{OutputPaths: []string{"stderr"}}
	assert.NoError(t, valid.Validate())

	invalid := Config{OutputPaths: []string{"stderr", "  "}}
	assert.Error(t, invalid.Validate())

	invalidErr := Config{ErrorOutputPaths: []string{""}}
	assert.Error(t, invalidErr.Validate())
}

func TestNew_BuildsLogger(t *testing.T) {
	logger, err := New(Config{
		Level:           zapcore.DebugLevel,
		StacktraceLevel: zapcore.ErrorLevel,
	})

	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(Config{OutputPaths: []string{" "}})

	assert.Error(t, err)
}
