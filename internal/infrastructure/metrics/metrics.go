package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Reconciliation metrics
	BackfillRuns     *prometheus.CounterVec
	BackfillAccounts *prometheus.CounterVec
	RebuildRuns      *prometheus.CounterVec
	EntriesWritten   prometheus.Counter
	EntriesDeleted   prometheus.Counter

	// Statement metrics
	StatementsServed prometheus.Counter
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter

	// API metrics
	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	HTTPInFlight  prometheus.Gauge
	DBConnections prometheus.Gauge
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		BackfillRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_backfill_runs_total",
				Help: "Total backfill runs by outcome",
			},
			[]string{"outcome"},
		),
		BackfillAccounts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_backfill_accounts_total",
				Help: "Accounts processed by backfill, by result",
			},
			[]string{"result"},
		),
		RebuildRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_rebuild_runs_total",
				Help: "Total account rebuilds by outcome",
			},
			[]string{"outcome"},
		),
		EntriesWritten: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_entries_written_total",
			Help: "Total ledger entries persisted",
		}),
		EntriesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_entries_deleted_total",
			Help: "Total ledger entries removed by rebuilds",
		}),

		StatementsServed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_statements_served_total",
			Help: "Total account statements served",
		}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_statement_cache_hits_total",
			Help: "Statement cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_statement_cache_misses_total",
			Help: "Statement cache misses",
		}),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_http_requests_total",
				Help: "Total HTTP requests by method, path and status",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_http_request_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_http_requests_in_flight",
			Help: "HTTP requests currently being served",
		}),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_db_connections",
			Help: "Open database connections",
		}),
	}
}
