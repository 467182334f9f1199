package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/bankrecon/internal/domain"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Statement metrics
	StatementLines *prometheus.CounterVec
	Imports        *prometheus.CounterVec
	ImportDuration *prometheus.HistogramVec
	Entries        *prometheus.CounterVec

	// Association metrics
	AssociationWrites *prometheus.CounterVec
	SyncQueueDepth    prometheus.Gauge
	CacheRequests     *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		StatementLines: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankrecon_statement_lines_total",
				Help: "Statement lines read, by parse status",
			},
			[]string{"status"},
		),
		Imports: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankrecon_imports_total",
				Help: "Confirmed imports by balancing mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		ImportDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bankrecon_import_duration_seconds",
				Help:    "Duration of confirmed imports",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"mode"},
		),
		Entries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankrecon_journal_entries_total",
				Help: "Journal entries by submission status",
			},
			[]string{"status"},
		),

		AssociationWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankrecon_association_writes_total",
				Help: "Association writes by outcome",
			},
			[]string{"outcome"},
		),
		SyncQueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bankrecon_association_sync_queue_depth",
			Help: "Association writes waiting to be persisted",
		}),
		CacheRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankrecon_association_cache_requests_total",
				Help: "Association cache lookups by result",
			},
			[]string{"result"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankrecon_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bankrecon_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bankrecon_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankrecon_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter",
		}),
	}
}

// RecordParse counts parsed and skipped statement lines.
func (m *Metrics) RecordParse(records, skipped int) {
	m.StatementLines.WithLabelValues("parsed").Add(float64(records))
	m.StatementLines.WithLabelValues("skipped").Add(float64(skipped))
}

// RecordImport counts a confirmed import and its duration.
func (m *Metrics) RecordImport(mode domain.Mode, outcome string, duration time.Duration) {
	m.Imports.WithLabelValues(string(mode), outcome).Inc()
	m.ImportDuration.WithLabelValues(string(mode)).Observe(duration.Seconds())
}

// RecordEntries counts submitted, failed and rejected entries.
func (m *Metrics) RecordEntries(submitted, failed, rejected int) {
	m.Entries.WithLabelValues("submitted").Add(float64(submitted))
	m.Entries.WithLabelValues("failed").Add(float64(failed))
	m.Entries.WithLabelValues("rejected").Add(float64(rejected))
}

// RecordAssociationWrite counts an association write outcome.
func (m *Metrics) RecordAssociationWrite(outcome string) {
	m.AssociationWrites.WithLabelValues(outcome).Inc()
}

// RecordCacheLookup counts an association cache hit or miss.
func (m *Metrics) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheRequests.WithLabelValues(result).Inc()
}
