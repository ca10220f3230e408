package redis

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_ReadsSubtree(t *testing.T) {
	v := viper.New()
	v.Set("redis.addr", "localhost:6379")
	v.Set("redis.db", 2)
	v.Set("redis.key-prefix", "ticks")
	v.Set("redis.ttl", "1h")

	cfg, err := NewConfig(v)

	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", cfg.Addr)
	assert.Equal(t, 2, cfg.DB)
	assert.Equal(t, "ticks", cfg.KeyPrefix)
	assert.Equal(t, time.Hour, cfg.TTL)
	assert.Equal(t, DefaultConnectTimeout, cfg.ConnectTimeout)
}

func TestNewConfig_Defaults(t *testing.T) {
	v := viper.New()
	v.Set("redis.addr", "localhost:6379")

	cfg, err := NewConfig(v)

	require.NoError(t, err)
	assert.Equal(t, DefaultKeyPrefix, cfg.KeyPrefix)
	assert.Zero(t, cfg.TTL)
}

func TestNewConfig_MissingAddr(t *testing.T) {
	v := viper.New()
	v.Set("redis.db", 1)

	_, err := NewConfig(v)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "addr is required")
}

func TestNewConfig_MissingSection(t *testing.T) {
	_, err := NewConfig(viper.New())
	require.Error(t, err)
}

func TestStore_KeyLayout(t *testing.T) {
	s := NewStore(nil, Config{KeyPrefix: "md"}, nil)

	assert.Equal(t, "md:BTC-PERP.TESTEX", s.valueKey("BTC-PERP.TESTEX"))
	assert.Equal(t, "md:index:TickerSnapshot", s.indexKey("TickerSnapshot"))
}
