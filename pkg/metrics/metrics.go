package metrics

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors exposed by the service.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueriesTotal  *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec

	dbPoolOpenConnections *prometheus.GaugeVec
	dbPoolInUse           *prometheus.GaugeVec
	dbPoolIdle            *prometheus.GaugeVec
	dbPoolWaitCount       *prometheus.GaugeVec
}

// New registers and returns the service metrics set.
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests.",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "path"}),

		dbQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries.",
			ConstLabels: constLabels,
		}, []string{"operation", "status"}),

		dbQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"operation"}),

		dbPoolOpenConnections: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_open_connections",
			Help:        "Number of open connections in the pool.",
			ConstLabels: constLabels,
		}, []string{"db"}),

		dbPoolInUse: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_in_use_connections",
			Help:        "Number of connections currently in use.",
			ConstLabels: constLabels,
		}, []string{"db"}),

		dbPoolIdle: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_idle_connections",
			Help:        "Number of idle connections in the pool.",
			ConstLabels: constLabels,
		}, []string{"db"}),

		dbPoolWaitCount: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_wait_count_total",
			Help:        "Total number of connections waited for.",
			ConstLabels: constLabels,
		}, []string{"db"}),
	}
}

// ObserveHTTPRequest records one completed HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, path, status string, durationSeconds float64) {
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(durationSeconds)
}

// ObserveDBQuery records one completed database query.
func (m *Metrics) ObserveDBQuery(operation string, durationSeconds float64, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.dbQueriesTotal.WithLabelValues(operation, status).Inc()
	m.dbQueryDuration.WithLabelValues(operation).Observe(durationSeconds)
}

// SetDBPoolStats publishes connection pool statistics.
func (m *Metrics) SetDBPoolStats(dbName string, stats sql.DBStats) {
	m.dbPoolOpenConnections.WithLabelValues(dbName).Set(float64(stats.OpenConnections))
	m.dbPoolInUse.WithLabelValues(dbName).Set(float64(stats.InUse))
	m.dbPoolIdle.WithLabelValues(dbName).Set(float64(stats.Idle))
	m.dbPoolWaitCount.WithLabelValues(dbName).Set(float64(stats.WaitCount))
}
