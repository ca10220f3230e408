package kafka

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Defaults applied by NewConfig.
const (
	DefaultPollTimeout      = 5 * time.Second
	DefaultFlushTimeout     = 10 * time.Second
	DefaultDeliveryTimeout  = 30 * time.Second
	DefaultMaxRetryAttempts = 5
	DefaultInitialBackoff   = 200 * time.Millisecond
	DefaultMaxBackoff       = 10 * time.Second
	DefaultAutoOffsetReset  = "earliest"
)

// Config is the kafka transport configuration, read from the "kafka"
// viper subtree.
type Config struct {
	// Brokers is the comma-separated bootstrap server list.
	Brokers  string         `mapstructure:"brokers"`
	Producer ProducerConfig `mapstructure:"producer"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

// ProducerConfig configures the publisher side.
type ProducerConfig struct {
	Topic string `mapstructure:"topic"`
	// RateLimit caps published messages per second. 0 disables limiting.
	RateLimit float64 `mapstructure:"rate-limit"`
	// RateBurst is the limiter burst size (defaults to 1 when limited).
	RateBurst int `mapstructure:"rate-burst"`
	// DeliveryTimeout bounds the wait for a broker acknowledgement.
	DeliveryTimeout time.Duration `mapstructure:"delivery-timeout"`
	// FlushTimeout bounds the final flush on close.
	FlushTimeout time.Duration `mapstructure:"flush-timeout"`
}

// ConsumerConfig configures the consumer side.
type ConsumerConfig struct {
	Topic           string `mapstructure:"topic"`
	GroupID         string `mapstructure:"group-id"`
	AutoOffsetReset string `mapstructure:"auto-offset-reset"`
	// PollTimeout is the per-poll read timeout.
	PollTimeout time.Duration `mapstructure:"poll-timeout"`
	// MaxRetryAttempts bounds handler retries per message. Decode
	// failures are never retried.
	MaxRetryAttempts uint `mapstructure:"max-retry-attempts"`
	InitialBackoff   time.Duration `mapstructure:"initial-backoff"`
	MaxBackoff       time.Duration `mapstructure:"max-backoff"`
}

// NewConfig loads kafka configuration from the "kafka" viper subtree and
// applies defaults.
func NewConfig(v *viper.Viper) (Config, error) {
	var cfg Config
	sub := v.Sub("kafka")
	if sub == nil {
		return cfg, fmt.Errorf("kafka config section is missing")
	}
	if err := sub.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to load kafka config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the fields no default can supply.
func (c Config) Validate() error {
	if c.Brokers == "" {
		return fmt.Errorf("kafka config: brokers is required")
	}
	if c.Consumer.Topic != "" && c.Consumer.GroupID == "" {
		return fmt.Errorf("kafka config: consumer group-id is required when a consumer topic is set")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Producer.DeliveryTimeout == 0 {
		cfg.Producer.DeliveryTimeout = DefaultDeliveryTimeout
	}
	if cfg.Producer.FlushTimeout == 0 {
		cfg.Producer.FlushTimeout = DefaultFlushTimeout
	}
	if cfg.Producer.RateLimit > 0 && cfg.Producer.RateBurst == 0 {
		cfg.Producer.RateBurst = 1
	}
	if cfg.Consumer.AutoOffsetReset == "" {
		cfg.Consumer.AutoOffsetReset = DefaultAutoOffsetReset
	}
	if cfg.Consumer.PollTimeout == 0 {
		cfg.Consumer.PollTimeout = DefaultPollTimeout
	}
	if cfg.Consumer.MaxRetryAttempts == 0 {
		cfg.Consumer.MaxRetryAttempts = DefaultMaxRetryAttempts
	}
	if cfg.Consumer.InitialBackoff == 0 {
		cfg.Consumer.InitialBackoff = DefaultInitialBackoff
	}
	if cfg.Consumer.MaxBackoff == 0 {
		cfg.Consumer.MaxBackoff = DefaultMaxBackoff
	}
}
