// Package promcollector exports grid metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	g, _ := hashgrid.New[uint32](32,
//	    hashgrid.WithMetricsCollector(promcollector.New(reg)),
//	)
package promcollector

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hupe1980/hashgrid"
)

const (
	opLabel     = "op"
	kindLabel   = "kind"
	statusLabel = "status"

	statusOK    = "ok"
	statusError = "error"
	statusMiss  = "miss"
)

// Option configures New.
type Option func(*options)

type options struct {
	namespace string
	buckets   []float64
}

// WithNamespace prefixes every metric name. The default is "hashgrid".
func WithNamespace(ns string) Option {
	return func(o *options) {
		o.namespace = ns
	}
}

// WithLatencyBuckets overrides the latency histogram buckets, in seconds.
func WithLatencyBuckets(b []float64) Option {
	return func(o *options) {
		o.buckets = b
	}
}

// Collector implements hashgrid.MetricsCollector on Prometheus vectors.
type Collector struct {
	mutations       *prometheus.CounterVec
	mutationLatency *prometheus.HistogramVec
	queries         *prometheus.CounterVec
	queryCells      *prometheus.HistogramVec
	queryCandidates *prometheus.HistogramVec
	queryLatency    *prometheus.HistogramVec
	batches         *prometheus.CounterVec
	batchItems      *prometheus.CounterVec
	batchLatency    *prometheus.HistogramVec
}

var _ hashgrid.MetricsCollector = (*Collector)(nil)

// New creates a collector and registers its metrics with reg.
// It panics if a metric with the same name is already registered.
func New(reg prometheus.Registerer, optFns ...Option) *Collector {
	o := options{
		namespace: "hashgrid",
		buckets:   prometheus.ExponentialBuckets(1e-7, 4, 12),
	}
	for _, fn := range optFns {
		fn(&o)
	}

	f := promauto.With(reg)
	countBuckets := prometheus.ExponentialBuckets(1, 2, 14)

	return &Collector{
		mutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "mutations_total",
			Help:      "The number of insert, update and remove operations.",
		}, []string{
			opLabel,
			statusLabel,
		}),
		mutationLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Name:      "mutation_latency_seconds",
			Help:      "The time spent in insert, update and remove operations.",
			Buckets:   o.buckets,
		}, []string{
			opLabel,
		}),
		queries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "queries_total",
			Help:      "The number of queries.",
		}, []string{
			kindLabel,
		}),
		queryCells: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Name:      "query_cells",
			Help:      "The number of cells inspected per query.",
			Buckets:   countBuckets,
		}, []string{
			kindLabel,
		}),
		queryCandidates: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Name:      "query_candidates",
			Help:      "The number of candidates returned per query.",
			Buckets:   countBuckets,
		}, []string{
			kindLabel,
		}),
		queryLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Name:      "query_latency_seconds",
			Help:      "The time spent per query.",
			Buckets:   o.buckets,
		}, []string{
			kindLabel,
		}),
		batches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "batches_total",
			Help:      "The number of batch queries.",
		}, []string{
			kindLabel,
			statusLabel,
		}),
		batchItems: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "batch_items_total",
			Help:      "The number of queries submitted in batches.",
		}, []string{
			kindLabel,
		}),
		batchLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Name:      "batch_latency_seconds",
			Help:      "The time spent per batch query.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 12),
		}, []string{
			kindLabel,
		}),
	}
}

// RecordInsert implements hashgrid.MetricsCollector.
func (c *Collector) RecordInsert(d time.Duration, err error) {
	c.mutation("insert", d, errStatus(err))
}

// RecordUpdate implements hashgrid.MetricsCollector.
func (c *Collector) RecordUpdate(d time.Duration, err error) {
	c.mutation("update", d, errStatus(err))
}

// RecordRemove implements hashgrid.MetricsCollector.
func (c *Collector) RecordRemove(d time.Duration, found bool) {
	status := statusOK
	if !found {
		status = statusMiss
	}
	c.mutation("remove", d, status)
}

func (c *Collector) mutation(op string, d time.Duration, status string) {
	c.mutations.With(prometheus.Labels{
		opLabel:     op,
		statusLabel: status,
	}).Inc()
	c.mutationLatency.With(prometheus.Labels{
		opLabel: op,
	}).Observe(d.Seconds())
}

// RecordQuery implements hashgrid.MetricsCollector.
func (c *Collector) RecordQuery(kind hashgrid.QueryKind, cells, candidates int, d time.Duration) {
	labels := prometheus.Labels{kindLabel: kind.String()}
	c.queries.With(labels).Inc()
	c.queryCells.With(labels).Observe(float64(cells))
	c.queryCandidates.With(labels).Observe(float64(candidates))
	c.queryLatency.With(labels).Observe(d.Seconds())
}

// RecordBatch implements hashgrid.MetricsCollector.
func (c *Collector) RecordBatch(kind hashgrid.QueryKind, count int, d time.Duration, err error) {
	c.batches.With(prometheus.Labels{
		kindLabel:   kind.String(),
		statusLabel: errStatus(err),
	}).Inc()
	c.batchItems.With(prometheus.Labels{
		kindLabel: kind.String(),
	}).Add(float64(count))
	c.batchLatency.With(prometheus.Labels{
		kindLabel: kind.String(),
	}).Observe(d.Seconds())
}

func errStatus(err error) string {
	if err != nil {
		return statusError
	}
	return statusOK
}
