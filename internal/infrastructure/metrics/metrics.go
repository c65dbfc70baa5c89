// Package metrics exposes Prometheus collectors for documents, reservations,
// HTTP traffic and the connection pool on a private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stockbook/internal/core/types"
)

const namespace = "stockbook"

// Metrics implements documents.Recorder and reservations.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	documents      *prometheus.CounterVec
	documentLines  *prometheus.CounterVec
	documentAmount *prometheus.CounterVec
	rejections     *prometheus.CounterVec
	reservations   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// New creates the collectors and registers them with the Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_committed_total",
			Help:      "Receipts and sales committed.",
		}, []string{"kind"}),
		documentLines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_lines_total",
			Help:      "Line items stored by committed documents.",
		}, []string{"kind"}),
		documentAmount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_amount_total",
			Help:      "Sum of committed document totals.",
		}, []string{"kind"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_rejected_total",
			Help:      "Documents rejected or rolled back, by error code.",
		}, []string{"kind", "code"}),
		reservations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservation_transitions_total",
			Help:      "Reservations entering each status.",
		}, []string{"status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.documents,
		m.documentLines,
		m.documentAmount,
		m.rejections,
		m.reservations,
		m.httpDuration,
	)
	return m
}

// DocumentCommitted records a committed receipt or sale.
func (m *Metrics) DocumentCommitted(kind string, lines int, total types.Money) {
	m.documents.WithLabelValues(kind).Inc()
	m.documentLines.WithLabelValues(kind).Add(float64(lines))
	m.documentAmount.WithLabelValues(kind).Add(total.InexactFloat64())
}

// DocumentRejected records a document that was not committed.
func (m *Metrics) DocumentRejected(kind, code string) {
	m.rejections.WithLabelValues(kind, code).Inc()
}

// ReservationChanged records a reservation entering status.
func (m *Metrics) ReservationChanged(status string) {
	m.reservations.WithLabelValues(status).Inc()
}

// ObserveHTTP records one served request. route is the matched pattern,
// not the raw path.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// PoolStater is satisfied by *pgxpool.Pool.
type PoolStater interface {
	Stat() *pgxpool.Stat
}

// RegisterPool exposes connection pool gauges read on every scrape.
func (m *Metrics) RegisterPool(pool PoolStater) {
	gauge := func(name, help string, read func(*pgxpool.Stat) int32) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db_pool",
			Name:      name,
			Help:      help,
		}, func() float64 { return float64(read(pool.Stat())) })
	}

	m.registry.MustRegister(
		gauge("total_conns", "Open connections.", (*pgxpool.Stat).TotalConns),
		gauge("acquired_conns", "Connections in use.", (*pgxpool.Stat).AcquiredConns),
		gauge("idle_conns", "Idle connections.", (*pgxpool.Stat).IdleConns),
		gauge("max_conns", "Configured maximum.", (*pgxpool.Stat).MaxConns),
	)
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
