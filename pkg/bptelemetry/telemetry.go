// Package bptelemetry provides optional Prometheus instrumentation for the
// tree backends: counters for structural events (split, merge, borrow),
// cache behavior (fault-load) and persistence (flush). Neither backend
// requires a Recorder; Noop is a zero-cost default.
package bptelemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder receives structural and cache events from a tree. Every method
// must be safe to call with the tree's mutation guard not held, since
// events fire mid-operation.
type Recorder interface {
	RecordSplit(kind string)
	RecordMerge(kind string)
	RecordBorrow(kind string)
	RecordFault()
	RecordFlush(nodeCount int)
}

type noop struct{}

func (noop) RecordSplit(string)   {}
func (noop) RecordMerge(string)   {}
func (noop) RecordBorrow(string)  {}
func (noop) RecordFault()         {}
func (noop) RecordFlush(int)      {}

// Noop is a Recorder that discards every event.
var Noop Recorder = noop{}

// PrometheusRecorder records tree events as Prometheus counters, registered
// against the default registry via promauto the way the teacher's
// pkg/api/metrics.go registers its HTTP and database metrics.
type PrometheusRecorder struct {
	splits  *prometheus.CounterVec
	merges  *prometheus.CounterVec
	borrows *prometheus.CounterVec
	faults  prometheus.Counter
	flushes prometheus.Counter
	flushed prometheus.Counter
}

// NewPrometheusRecorder registers and returns a Prometheus-backed Recorder.
// namespace prefixes every metric name, letting multiple trees in the same
// process register under distinct names.
func NewPrometheusRecorder(namespace string) *PrometheusRecorder {
	return &PrometheusRecorder{
		splits: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bptree_splits_total",
			Help:      "Total number of node splits, by node kind.",
		}, []string{"kind"}),
		merges: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bptree_merges_total",
			Help:      "Total number of node merges, by node kind.",
		}, []string{"kind"}),
		borrows: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bptree_borrows_total",
			Help:      "Total number of sibling borrows, by node kind.",
		}, []string{"kind"}),
		faults: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bptree_node_faults_total",
			Help:      "Total number of lazy node loads from disk.",
		}),
		flushes: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bptree_persist_calls_total",
			Help:      "Total number of persist/persist_key calls.",
		}),
		flushed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bptree_nodes_flushed_total",
			Help:      "Total number of dirty nodes written during persistence.",
		}),
	}
}

func (r *PrometheusRecorder) RecordSplit(kind string)  { r.splits.WithLabelValues(kind).Inc() }
func (r *PrometheusRecorder) RecordMerge(kind string)  { r.merges.WithLabelValues(kind).Inc() }
func (r *PrometheusRecorder) RecordBorrow(kind string) { r.borrows.WithLabelValues(kind).Inc() }
func (r *PrometheusRecorder) RecordFault()             { r.faults.Inc() }
func (r *PrometheusRecorder) RecordFlush(nodeCount int) {
	r.flushes.Inc()
	r.flushed.Add(float64(nodeCount))
}
