// Package config loads the indexer's process configuration from
// flags, environment variables, and an optional config file, all
// bound through a shared viper.Viper instance owned by cmd/kgindexer.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the full set of settings the indexer needs to run.
// DatabaseURL, SubstreamsEndpoint, Network, PackageSource, Module and
// CursorID are required; the rest take whatever defaults the viper
// instance carries.
type Config struct {
	DatabaseURL        string
	SubstreamsEndpoint string
	SubstreamsAPIToken string

	Network       string
	PackageSource string
	Module        string
	StartBlock    int64
	EndBlock      int64
	CursorID      string

	LogLevel        string
	LogFormat       string
	MetricsAddr     string
	CachePoolSize   int
	StoragePoolSize int
}

// FromViper builds a Config from v, which cmd/kgindexer has already
// populated from command-line flags, KG_-prefixed environment
// variables, and an optional config file, in that precedence order.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		DatabaseURL:        v.GetString("database-url"),
		SubstreamsEndpoint: v.GetString("substreams-endpoint"),
		SubstreamsAPIToken: v.GetString("substreams-api-token"),

		Network:       v.GetString("network"),
		PackageSource: v.GetString("package"),
		Module:        v.GetString("module"),
		StartBlock:    v.GetInt64("start-block"),
		EndBlock:      v.GetInt64("end-block"),
		CursorID:      v.GetString("cursor-id"),

		LogLevel:        v.GetString("log-level"),
		LogFormat:       v.GetString("log-format"),
		MetricsAddr:     v.GetString("metrics-addr"),
		CachePoolSize:   v.GetInt("cache-pool-size"),
		StoragePoolSize: v.GetInt("storage-pool-size"),
	}

	for flag, value := range map[string]string{
		"database-url":        cfg.DatabaseURL,
		"substreams-endpoint": cfg.SubstreamsEndpoint,
		"network":             cfg.Network,
		"package":             cfg.PackageSource,
		"module":              cfg.Module,
		"cursor-id":           cfg.CursorID,
	} {
		if value == "" {
			return Config{}, fmt.Errorf("required setting %q not set", flag)
		}
	}

	return cfg, nil
}

// RetryConfig controls the cache client's backoff policy (spec: base
// 10ms, factor 2, cap 5s, jitter, unbounded attempts).
type RetryConfig struct {
	BaseDelay time.Duration
	MaxDelay  time.Duration
	Factor    float64
}

// DefaultRetryConfig returns the spec-mandated backoff parameters.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		BaseDelay: 10 * time.Millisecond,
		MaxDelay:  5 * time.Second,
		Factor:    2.0,
	}
}
