package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Posting metrics
	MovementsCreated  prometheus.Counter
	MovementsUpdated  prometheus.Counter
	PostingDuration   prometheus.Histogram
	MovementTotal     prometheus.Histogram
	ValidationErrors  *prometheus.CounterVec
	PostingErrors     *prometheus.CounterVec
	DirectPayments    prometheus.Counter
	LedgerEntries     prometheus.Counter
	HistorySnapshots  prometheus.Counter

	// Consistency metrics
	ConsistencyChecks        prometheus.Counter
	ConsistencyDiscrepancies prometheus.Gauge

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Outbox metrics
	EventsPublished prometheus.Counter
	PublishErrors   prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		MovementsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gomovements_movements_created_total",
			Help: "Total number of movements created",
		}),
		MovementsUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gomovements_movements_updated_total",
			Help: "Total number of movements updated",
		}),
		PostingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gomovements_posting_duration_seconds",
			Help:    "Duration of posting operations",
			Buckets: prometheus.DefBuckets,
		}),
		MovementTotal: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gomovements_movement_total",
			Help:    "Computed movement totals",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		ValidationErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gomovements_validation_errors_total",
				Help: "Total number of validation errors by field",
			},
			[]string{"field"},
		),
		PostingErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gomovements_posting_errors_total",
				Help: "Total number of posting errors by type",
			},
			[]string{"error_type"},
		),
		DirectPayments: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gomovements_direct_payments_total",
			Help: "Total number of directly paid movements",
		}),
		LedgerEntries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gomovements_ledger_entries_total",
			Help: "Total number of ledger entries posted",
		}),
		HistorySnapshots: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gomovements_history_snapshots_total",
			Help: "Total number of history snapshots recorded",
		}),

		ConsistencyChecks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gomovements_consistency_checks_total",
			Help: "Total number of consistency check runs",
		}),
		ConsistencyDiscrepancies: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "gomovements_consistency_discrepancies",
			Help: "Discrepancies found by the last consistency check",
		}),

		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gomovements_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gomovements_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "gomovements_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gomovements_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gomovements_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gomovements_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		EventsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gomovements_events_published_total",
			Help: "Total outbox events published",
		}),
		PublishErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gomovements_publish_errors_total",
			Help: "Total outbox publish errors",
		}),
	}
}
