package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "amrmap"

var (
	AggregateCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "dashboard",
		Name:      "aggregate_cache_hits_total",
		Help:      "Aggregates served from the memo cache.",
	})

	AggregateCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "dashboard",
		Name:      "aggregate_cache_misses_total",
		Help:      "Aggregates recomputed from stored samples.",
	})

	AggregateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "dashboard",
		Name:      "aggregate_duration_seconds",
		Help:      "Time spent loading samples and aggregating them.",
		Buckets:   prometheus.DefBuckets,
	})

	SamplesImported = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ingest",
		Name:      "samples_imported_total",
		Help:      "Sample records written to the store, by source.",
	}, []string{"source"})

	ImportFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ingest",
		Name:      "import_failures_total",
		Help:      "Rejected or failed imports, by source.",
	}, []string{"source"})
)

// Import sources.
const (
	SourceUpload   = "upload"
	SourceBackfill = "backfill"
	SourceFile     = "file"
)
