package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// FilePath is the path to the configuration file. Empty means no config
// file is loaded and viper serves environment variables only.
type FilePath string

type viperOptions struct {
	configPath   *string
	noConfigFile bool
}

// ViperOption configures the viper module.
type ViperOption func(*viperOptions)

// WithConfigPath sets a direct path to the configuration file, overriding
// the path resolved from AppConfig.
func WithConfigPath(path string) ViperOption {
	return func(o *viperOptions) {
		o.configPath = &path
	}
}

// WithoutConfigFile disables config file loading. Viper stays available for
// DI backed by environment variables alone.
func WithoutConfigFile() ViperOption {
	return func(o *viperOptions) {
		o.noConfigFile = true
	}
}

// NewViperModule provides a *viper.Viper for the rest of the process. The
// config file path comes from AppConfig unless overridden by an option.
// Construction never depends on the logger, so logging config can itself be
// read from viper.
func NewViperModule(opts ...ViperOption) fx.Option {
	cfg := &viperOptions{}
	for _, opt := range opts {
		opt(cfg)
	}

	return fx.Module("viper",
		fx.Provide(func(app AppConfig) FilePath {
			return resolveConfigPath(cfg, app)
		}),
		fx.Provide(newViper),
		fx.Invoke(logViperConfig),
	)
}

func resolveConfigPath(cfg *viperOptions, app AppConfig) FilePath {
	if cfg.noConfigFile {
		return ""
	}
	if cfg.configPath != nil {
		return FilePath(*cfg.configPath)
	}
	return FilePath(app.ConfigFile)
}

func newViper(configFile FilePath) (*viper.Viper, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if configFile == "" {
		return v, nil
	}

	v.SetConfigFile(string(configFile))
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file [%s]: %w", configFile, err)
	}
	return v, nil
}

func logViperConfig(logger *zap.Logger, v *viper.Viper) {
	logger.Info("configuration loaded",
		zap.String("configFile", v.ConfigFileUsed()),
		zap.Int("settingsCount", len(v.AllSettings())),
	)
}
