package catalog

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_ReadsSubtree(t *testing.T) {
	v := viper.New()
	v.Set("catalog.flush-rows", 128)

	cfg, err := NewConfig(v)

	require.NoError(t, err)
	assert.Equal(t, 128, cfg.FlushRows)
}

func TestNewConfig_MissingSubtreeYieldsDefaults(t *testing.T) {
	cfg, err := NewConfig(viper.New())

	require.NoError(t, err)
	assert.Equal(t, DefaultFlushRows, cfg.FlushRows)
}
