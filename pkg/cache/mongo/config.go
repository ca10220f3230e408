package mongo

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Defaults applied by NewConfig.
const (
	DefaultCollection          = "snapshots"
	DefaultMaxPoolSize         = 100
	DefaultMinPoolSize         = 10
	DefaultMaxConnIdleTime     = 5 * time.Minute
	DefaultConnectTimeout      = 10 * time.Second
	DefaultServerSelectTimeout = 30 * time.Second
	DefaultQueryTimeout        = 30 * time.Second
)

// Config is the mongo store configuration, read from the "mongo" viper
// subtree.
type Config struct {
	// ConnectionString overrides host/port/credentials when set.
	ConnectionString string `mapstructure:"connection-string"`
	Host             string `mapstructure:"host"`
	Port             int    `mapstructure:"port"`
	Username         string `mapstructure:"username"`
	Password         string `mapstructure:"password"`
	Database         string `mapstructure:"database"`
	Collection       string `mapstructure:"collection"`

	MaxPoolSize         uint64        `mapstructure:"max-pool-size"`
	MinPoolSize         uint64        `mapstructure:"min-pool-size"`
	MaxConnIdleTime     time.Duration `mapstructure:"max-conn-idle-time"`
	ConnectTimeout      time.Duration `mapstructure:"connect-timeout"`
	ServerSelectTimeout time.Duration `mapstructure:"server-select-timeout"`
	QueryTimeout        time.Duration `mapstructure:"query-timeout"`
}

// NewConfig loads mongo configuration from the "mongo" viper subtree.
func NewConfig(v *viper.Viper) (Config, error) {
	var cfg Config
	sub := v.Sub("mongo")
	if sub == nil {
		return cfg, fmt.Errorf("mongo config section is missing")
	}
	if err := sub.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to load mongo config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks that either a connection string or host coordinates are
// present.
func (c Config) Validate() error {
	if c.Database == "" {
		return fmt.Errorf("mongo config: database is required")
	}
	if c.ConnectionString != "" {
		return nil
	}
	if c.Host == "" || c.Port == 0 {
		return fmt.Errorf("mongo config: host and port are required without a connection string")
	}
	return nil
}

// URI builds the connection URI.
func (c Config) URI() string {
	if c.ConnectionString != "" {
		return c.ConnectionString
	}

	auth := ""
	if c.Username != "" {
		auth = fmt.Sprintf("%s:%s@", c.Username, c.Password)
	}
	return fmt.Sprintf("mongodb://%s%s:%d/%s", auth, c.Host, c.Port, strings.TrimPrefix(c.Database, "/"))
}

func applyDefaults(cfg *Config) {
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.MaxPoolSize == 0 {
		cfg.MaxPoolSize = DefaultMaxPoolSize
	}
	if cfg.MinPoolSize == 0 {
		cfg.MinPoolSize = DefaultMinPoolSize
	}
	if cfg.MaxConnIdleTime == 0 {
		cfg.MaxConnIdleTime = DefaultMaxConnIdleTime
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}
	if cfg.ServerSelectTimeout == 0 {
		cfg.ServerSelectTimeout = DefaultServerSelectTimeout
	}
	if cfg.QueryTimeout == 0 {
		cfg.QueryTimeout = DefaultQueryTimeout
	}
}
