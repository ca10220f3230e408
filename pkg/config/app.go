// Package config loads process configuration: service identity from
// environment variables and everything else from a viper-managed config
// file. Per-package configs unmarshal their own viper subtree.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Environment variable names.
const (
	envAppEnv            = "APP_ENV"
	envAppServiceName    = "APP_SERVICE_NAME"
	envAppServiceVersion = "APP_SERVICE_VERSION"
	envConfigFile        = "CONFIG_FILE"
	envConfigDir         = "CONFIG_DIR"
	envConfigName        = "CONFIG_NAME"
)

const defaultConfigDir = "./configs"

// AppConfig carries the service identity and the resolved config file path.
type AppConfig struct {
	// ConfigFile is the full path to the config file.
	ConfigFile string
	// ServiceName identifies the service (used in logs and telemetry).
	ServiceName string
	// ServiceVersion is the deployed service version.
	ServiceVersion string
	// Environment is the deployment environment (e.g. "local", "staging", "pro").
	Environment string
}

type appConfigOptions struct {
	static *AppConfig
}

// AppConfigOption configures the app config module.
type AppConfigOption func(*appConfigOptions)

// WithAppConfig provides a static AppConfig instead of reading environment
// variables. Useful for tests.
func WithAppConfig(cfg AppConfig) AppConfigOption {
	return func(o *appConfigOptions) {
		o.static = &cfg
	}
}

// NewAppConfigModule provides AppConfig loaded from environment variables.
//
// Required: APP_ENV, APP_SERVICE_NAME, APP_SERVICE_VERSION.
// Optional: CONFIG_FILE (default ./configs/config.{env}.yaml), CONFIG_DIR,
// CONFIG_NAME.
func NewAppConfigModule(opts ...AppConfigOption) fx.Option {
	cfg := &appConfigOptions{}
	for _, opt := range opts {
		opt(cfg)
	}

	provider := newAppConfig
	if cfg.static != nil {
		static := *cfg.static
		provider = func() (AppConfig, error) { return static, nil }
	}

	return fx.Module("appconfig",
		fx.Provide(provider),
		fx.Invoke(func(logger *zap.Logger, conf AppConfig) {
			logger.Info("loaded application configuration",
				zap.String("service", conf.ServiceName),
				zap.String("version", conf.ServiceVersion),
				zap.String("environment", conf.Environment),
				zap.String("configFile", conf.ConfigFile),
			)
		}),
	)
}

func newAppConfig() (AppConfig, error) {
	env := os.Getenv(envAppEnv)
	if env == "" {
		return AppConfig{}, fmt.Errorf("%s is required", envAppEnv)
	}
	serviceName := os.Getenv(envAppServiceName)
	if serviceName == "" {
		return AppConfig{}, fmt.Errorf("%s is required", envAppServiceName)
	}
	serviceVersion := os.Getenv(envAppServiceVersion)
	if serviceVersion == "" {
		return AppConfig{}, fmt.Errorf("%s is required", envAppServiceVersion)
	}

	configFile := os.Getenv(envConfigFile)
	if configFile == "" {
		configDir := os.Getenv(envConfigDir)
		if configDir == "" {
			configDir = defaultConfigDir
		}
		configName := os.Getenv(envConfigName)
		if configName == "" {
			configName = "config." + env
		}
		configFile = filepath.Join(configDir, configName+".yaml")
	}

	return AppConfig{
		ConfigFile:     configFile,
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
		Environment:    env,
	}, nil
}
