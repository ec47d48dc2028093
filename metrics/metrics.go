// Package metrics wraps the Prometheus collectors the pipeline
// exposes: blocks processed, cache retries, edit outcomes (including
// blocklisted drops), and handler durations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every collector the indexer registers, backed by
// its own prometheus.Registry so tests can construct isolated
// instances.
type Registry struct {
	reg *prometheus.Registry

	BlocksProcessed  prometheus.Counter
	CacheRetries     prometheus.Counter
	EditsResolved    prometheus.Counter
	EditsErrored     prometheus.Counter
	EditsBlocklisted prometheus.Counter

	StorageDuration  *prometheus.HistogramVec
	DispatchDuration prometheus.Histogram
}

// New builds a fresh Registry with all collectors registered.
func New() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		reg: reg,

		BlocksProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "kg_indexer_blocks_processed_total",
			Help: "Number of blocks fully processed and committed.",
		}),
		CacheRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "kg_indexer_cache_retries_total",
			Help: "Number of transient cache lookup retries.",
		}),
		EditsResolved: factory.NewCounter(prometheus.CounterOpts{
			Name: "kg_indexer_edits_resolved_total",
			Help: "Number of edits successfully resolved through the side cache.",
		}),
		EditsErrored: factory.NewCounter(prometheus.CounterOpts{
			Name: "kg_indexer_edits_errored_total",
			Help: "Number of edits that resolved to a permanent errored state.",
		}),
		EditsBlocklisted: factory.NewCounter(prometheus.CounterOpts{
			Name: "kg_indexer_edits_blocklisted_total",
			Help: "Number of edits dropped before cache lookup because their DAO is blocklisted.",
		}),
		StorageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name: "kg_indexer_storage_duration_seconds",
			Help: "Duration of storage backend calls by operation.",
		}, []string{"operation"}),
		DispatchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name: "kg_indexer_dispatch_duration_seconds",
			Help: "Duration of one block's full dispatch fan-out.",
		}),
	}
}

// Registerer exposes the underlying registry for registering further
// collectors.
func (r *Registry) Registerer() prometheus.Registerer { return r.reg }

// Gatherer exposes the underlying registry for scrape handlers.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }
