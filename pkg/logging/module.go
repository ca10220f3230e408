package logging

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

type loggingOptions struct {
	static *Config
}

// Option configures the logging module.
type Option func(*loggingOptions)

// WithConfig provides a static Config instead of reading it from viper.
// Useful for tests.
func WithConfig(cfg Config) Option {
	return func(o *loggingOptions) {
		o.static = &cfg
	}
}

// NewLoggingModule provides the process *zap.Logger and routes fx's own
// events through it. The logger config is read from the "logging" viper
// subtree unless WithConfig is used.
func NewLoggingModule(opts ...Option) fx.Option {
	cfg := &loggingOptions{}
	for _, opt := range opts {
		opt(cfg)
	}

	configProvider := fx.Provide(NewConfig)
	if cfg.static != nil {
		static := *cfg.static
		configProvider = fx.Provide(func() (Config, error) { return static, nil })
	}

	return fx.Options(
		configProvider,
		fx.Provide(
			provideLogger,
			// Shared throttler for drop-path warnings, default interval.
			func(log *zap.Logger) *Throttler { return NewThrottler(log, 0) },
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
	)
}

func provideLogger(lc fx.Lifecycle, conf Config) (*zap.Logger, error) {
	logger, err := New(conf)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := logger.Sync(); err != nil {
				// Syncing stderr is not supported on some platforms.
				var pathErr *os.PathError
				if errors.As(err, &pathErr) && pathErr.Err.Error() == "invalid argument" {
					return nil
				}
				return err
			}
			return nil
		},
	})

	return logger, nil
}
