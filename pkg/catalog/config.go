package catalog

import (
	"fmt"

	"github.com/spf13/viper"
)

// DefaultFlushRows is the per-type row count that triggers a flush.
const DefaultFlushRows = 4096

// Config is the appender configuration, read from the "catalog" viper
// subtree. A missing subtree yields the defaults.
type Config struct {
	FlushRows int `mapstructure:"flush-rows"`
}

// NewConfig loads catalog configuration from the "catalog" viper subtree.
func NewConfig(v *viper.Viper) (Config, error) {
	var cfg Config
	if sub := v.Sub("catalog"); sub != nil {
		if err := sub.Unmarshal(&cfg); err != nil {
			return cfg, fmt.Errorf("failed to load catalog config: %w", err)
		}
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.FlushRows <= 0 {
		cfg.FlushRows = DefaultFlushRows
	}
}
