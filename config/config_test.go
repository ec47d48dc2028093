package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViperRejectsMissingRequiredSetting(t *testing.T) {
	v := viper.New()
	v.Set("substreams-endpoint", "example.com:443")
	v.Set("network", "mainnet")
	v.Set("package", "geo-substream@latest")
	v.Set("module", "geo_out")
	v.Set("cursor-id", "mainnet")

	_, err := FromViper(v)
	require.Error(t, err)
}

func TestFromViperReadsViperDefaults(t *testing.T) {
	v := viper.New()
	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", "text")
	v.SetDefault("metrics-addr", ":9090")
	v.SetDefault("cache-pool-size", 20)
	v.SetDefault("storage-pool-size", 20)

	v.Set("database-url", "postgres://localhost/kg")
	v.Set("substreams-endpoint", "example.com:443")
	v.Set("network", "mainnet")
	v.Set("package", "geo-substream@latest")
	v.Set("module", "geo_out")
	v.Set("cursor-id", "mainnet")

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.Equal(t, 20, cfg.CachePoolSize)
}

func TestDefaultRetryConfigMatchesSpec(t *testing.T) {
	cfg := DefaultRetryConfig()
	assert.Equal(t, 2.0, cfg.Factor)
}
