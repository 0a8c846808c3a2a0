package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	CollectionCyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collectord_collection_cycles_total",
			Help: "Completed collection cycles by api_name and outcome.",
		},
		[]string{"api_name", "outcome"},
	)

	CollectionDeviceResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collectord_collection_device_results_total",
			Help: "Per-device collection outcomes within a cycle.",
		},
		[]string{"api_name", "result"},
	)

	CollectionCycleDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "collectord_collection_cycle_duration_seconds",
			Help:    "Wall-clock duration of one collection cycle.",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"api_name"},
	)

	BatchWriteDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "collectord_batch_write_duration_seconds",
			Help:    "Duration of one batch-insert transaction.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
		[]string{"api_name"},
	)

	BatchesSkippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collectord_batches_skipped_total",
			Help: "Batch writes skipped because the content hash was unchanged.",
		},
		[]string{"api_name"},
	)

	ParseErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collectord_parse_errors_total",
			Help: "Parser failures by api_name and reason.",
		},
		[]string{"api_name", "reason"},
	)

	CollectionErrorsGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "collectord_collection_errors_open",
			Help: "Open CollectionError rows by api_name, most recently observed.",
		},
		[]string{"api_name"},
	)

	SNMPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "collectord_snmp_request_duration_seconds",
			Help:    "SNMP GET/WALK latency by operation.",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"op"},
	)

	EventsPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collectord_events_published_total",
			Help: "Batch-changed events published to the event bus.",
		},
		[]string{"api_name", "outcome"},
	)

	RetentionBatchesDeletedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collectord_retention_batches_deleted_total",
			Help: "CollectionBatch rows deleted by the retention job.",
		},
		[]string{},
	)
)

var registerOnce sync.Once

// Register registers every collector exactly once; safe to call more than
// once (e.g. from both test setup and main) since prometheus.MustRegister
// panics on a duplicate registration otherwise.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			CollectionCyclesTotal,
			CollectionDeviceResultsTotal,
			CollectionCycleDuration,
			BatchWriteDuration,
			BatchesSkippedTotal,
			ParseErrorsTotal,
			CollectionErrorsGauge,
			SNMPRequestDuration,
			EventsPublishedTotal,
			RetentionBatchesDeletedTotal,
		)
	})
}
