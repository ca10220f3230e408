package redis

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Defaults applied by NewConfig.
const (
	DefaultKeyPrefix      = "marketdata"
	DefaultConnectTimeout = 30 * time.Second
)

// Config is the redis store configuration, read from the "redis" viper
// subtree.
type Config struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// KeyPrefix namespaces all keys written by this store.
	KeyPrefix string `mapstructure:"key-prefix"`
	// TTL expires stored mappings. 0 keeps them forever.
	TTL time.Duration `mapstructure:"ttl"`
	// ConnectTimeout bounds the start-up ping retries.
	ConnectTimeout time.Duration `mapstructure:"connect-timeout"`
}

// NewConfig loads redis configuration from the "redis" viper subtree.
func NewConfig(v *viper.Viper) (Config, error) {
	var cfg Config
	sub := v.Sub("redis")
	if sub == nil {
		return cfg, fmt.Errorf("redis config section is missing")
	}
	if err := sub.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to load redis config: %w", err)
	}

	applyDefaults(&cfg)

	if cfg.Addr == "" {
		return cfg, fmt.Errorf("redis config: addr is required")
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}
}
