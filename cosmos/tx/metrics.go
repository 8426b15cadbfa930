package tx

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "bluechip"
	metricsSubsystem = "tx"
)

var (
	// Sequence metrics
	sequencesIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "sequences_issued_total",
			Help:      "Total number of account sequences handed out to signers",
		},
	)

	sequenceFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "sequence_fetches_total",
			Help:      "Total number of account lookups against the node",
		},
		[]string{"status"},
	)

	sequenceInvalidationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "sequence_invalidations_total",
			Help:      "Total number of cached sequences dropped",
		},
	)

	// Broadcast metrics
	txBroadcastsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "broadcasts_total",
			Help:      "Total number of transaction broadcasts",
		},
		[]string{"mode", "status"},
	)

	txBroadcastLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "broadcast_latency_seconds",
			Help:      "Time from signing to a broadcast result, in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"mode"},
	)

	// Queue metrics
	txBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "batch_size",
			Help:      "Number of messages carried by each dispatched batch",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)
)
