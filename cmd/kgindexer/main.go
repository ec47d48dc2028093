// Command kgindexer runs the knowledge-graph block indexer: it
// subscribes to an upstream block stream, resolves and normalizes
// each block's events, and commits the result to Postgres.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/geobrowser/kg-indexer/cache"
	"github.com/geobrowser/kg-indexer/config"
	"github.com/geobrowser/kg-indexer/cursorstore"
	"github.com/geobrowser/kg-indexer/log"
	"github.com/geobrowser/kg-indexer/metrics"
	"github.com/geobrowser/kg-indexer/pipeline"
	"github.com/geobrowser/kg-indexer/properties"
	"github.com/geobrowser/kg-indexer/storage"
	"github.com/geobrowser/kg-indexer/substream"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "kgindexer",
	Short: "Indexes a knowledge-graph substream into Postgres",
	RunE:  run,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default $HOME/.kgindexer.yaml)")
	flags.String("database-url", "", "Postgres connection string")
	flags.String("substreams-endpoint", "", "upstream stream RPC endpoint")
	flags.String("substreams-api-token", "", "upstream stream RPC bearer token")
	flags.String("network", "", "network identifier used to derive space ids")
	flags.String("package", "", "substream package source: name@version, URL, or local path")
	flags.String("module", "", "substream module name to execute")
	flags.Int64("start-block", 0, "first block to request")
	flags.Int64("end-block", 0, "last block to request, 0 for unbounded")
	flags.String("cursor-id", "", "id this indexer instance persists its cursor under")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", "text", "log format: text or json")
	flags.String("metrics-addr", ":9090", "Prometheus /metrics listen address")
	flags.Int("cache-pool-size", 20, "side cache connection pool size")
	flags.Int("storage-pool-size", 20, "storage connection pool size")

	for _, name := range []string{
		"database-url", "substreams-endpoint", "substreams-api-token",
		"network", "package", "module", "start-block", "end-block", "cursor-id",
		"log-level", "log-format", "metrics-addr", "cache-pool-size", "storage-pool-size",
	} {
		viper.BindPFlag(name, flags.Lookup(name))
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".kgindexer")
	}

	viper.SetEnvPrefix("KG")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return err
	}

	logger := log.New(log.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	entry := logger.WithField("component", "main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := metrics.New()
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg.Gatherer(), promhttp.HandlerOpts{}))
		if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
			entry.WithError(err).Warn("metrics server stopped")
		}
	}()

	storageBackend, err := storage.New(ctx, cfg.DatabaseURL, cfg.StoragePoolSize)
	if err != nil {
		entry.WithError(err).Fatal("failed to connect storage backend")
	}
	defer storageBackend.Close()
	storageBackend.SetMetrics(reg)

	cacheClient, err := cache.New(ctx, cfg.DatabaseURL, cfg.CachePoolSize)
	if err != nil {
		entry.WithError(err).Fatal("failed to connect side cache")
	}
	defer cacheClient.Close()
	cacheClient.SetMetrics(reg)

	packageURL, err := substream.ResolvePackage(cfg.PackageSource)
	if err != nil {
		entry.WithError(err).Fatal("failed to resolve package source")
	}

	streamClient, err := substream.Dial(ctx, cfg.SubstreamsEndpoint, cfg.SubstreamsAPIToken)
	if err != nil {
		entry.WithError(err).Fatal("failed to dial substream endpoint")
	}
	defer streamClient.Close()

	driver := &pipeline.Driver{
		Stream:      streamClient,
		Cache:       cacheClient,
		Backend:     storageBackend,
		Props:       properties.New(logger),
		Cursors:     cursorstore.New(storageBackend.Pool()),
		Metrics:     reg,
		Log:         logger,
		Network:     cfg.Network,
		CursorID:    cfg.CursorID,
		RetryConfig: config.DefaultRetryConfig(),
	}

	sub := substream.Subscription{
		PackageURL: packageURL,
		Module:     cfg.Module,
		StartBlock: cfg.StartBlock,
		EndBlock:   cfg.EndBlock,
	}

	if err := driver.Run(ctx, sub); err != nil {
		entry.WithError(err).Error("pipeline terminated with error")
		return err
	}

	entry.Info("pipeline terminated cleanly")
	return nil
}
