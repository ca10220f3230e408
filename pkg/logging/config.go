package logging

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Config controls the process logger.
type Config struct {
	// Level is the minimum logging level.
	Level zapcore.Level `mapstructure:"level"`

	// Development switches to console encoding with human-readable
	// timestamps. Production mode (false) uses JSON encoding.
	Development bool `mapstructure:"development"`

	// OutputPaths lists URLs or file paths for log output. Defaults to
	// stderr when empty.
	OutputPaths []string `mapstructure:"outputPaths"`

	// ErrorOutputPaths lists URLs or file paths for internal logger
	// errors. Defaults to stderr when empty.
	ErrorOutputPaths []string `mapstructure:"errorOutputPaths"`

	// StacktraceLevel is the minimum level at which stacktraces are
	// captured. Defaults to ErrorLevel.
	StacktraceLevel zapcore.Level `mapstructure:"stacktraceLevel"`
}

// Validate checks output paths for emptiness.
func (c Config) Validate() error {
	if err := validatePaths(c.OutputPaths, "outputPaths"); err != nil {
		return err
	}
	return validatePaths(c.ErrorOutputPaths, "errorOutputPaths")
}

func validatePaths(paths []string, field string) error {
	for i, path := range paths {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("%s[%d] cannot be empty or whitespace", field, i)
		}
	}
	return nil
}

// NewConfig reads the "logging" subtree of the given viper instance. A
// missing subtree yields info-level production defaults.
func NewConfig(v *viper.Viper) (Config, error) {
	sub := v.Sub("logging")
	if sub == nil {
		return Config{
			Level:           zapcore.InfoLevel,
			StacktraceLevel: zapcore.ErrorLevel,
		}, nil
	}

	var raw struct {
		Level            string   `mapstructure:"level"`
		Development      bool     `mapstructure:"development"`
		OutputPaths      []string `mapstructure:"outputPaths"`
		ErrorOutputPaths []string `mapstructure:"errorOutputPaths"`
		StacktraceLevel  string   `mapstructure:"stacktraceLevel"`
	}
	if err := sub.Unmarshal(&raw); err != nil {
		return Config{}, fmt.Errorf("failed to load logging config: %w", err)
	}

	level, err := parseLevel(raw.Level, zapcore.InfoLevel)
	if err != nil {
		return Config{}, fmt.Errorf("invalid log level %q: %w", raw.Level, err)
	}
	stacktraceLevel, err := parseLevel(raw.StacktraceLevel, zapcore.ErrorLevel)
	if err != nil {
		return Config{}, fmt.Errorf("invalid stacktrace level %q: %w", raw.StacktraceLevel, err)
	}

	return Config{
		Level:            level,
		Development:      raw.Development,
		OutputPaths:      raw.OutputPaths,
		ErrorOutputPaths: raw.ErrorOutputPaths,
		StacktraceLevel:  stacktraceLevel,
	}, nil
}

func parseLevel(s string, fallback zapcore.Level) (zapcore.Level, error) {
	if s == "" {
		return fallback, nil
	}
	return zapcore.ParseLevel(s)
}
