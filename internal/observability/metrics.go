package observability

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	dbConnectionPoolStats = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "db_connection_pool_stats",
			Help: "Database connection pool statistics (total, idle, acquired)",
		},
		[]string{"state"},
	)

	cacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
	)
	cacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
	)
	cacheErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_errors_total",
			Help: "Total number of failed cache operations",
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestLatency)
	prometheus.MustRegister(dbConnectionPoolStats)
	prometheus.MustRegister(cacheHits)
	prometheus.MustRegister(cacheMisses)
	prometheus.MustRegister(cacheErrors)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records HTTP request latency.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriterSpy{ResponseWriter: w, code: http.StatusOK}

		next.ServeHTTP(ww, r)

		// Pattern keeps the label set bounded; unmatched routes share one label.
		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		duration := time.Since(start).Seconds()
		httpRequestLatency.WithLabelValues(r.Method, path, fmt.Sprint(ww.code)).Observe(duration)
	})
}

type responseWriterSpy struct {
	http.ResponseWriter
	code int
}

func (w *responseWriterSpy) WriteHeader(statusCode int) {
	w.code = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// DBStats is a point-in-time view of a connection pool.
type DBStats struct {
	Total    int
	Idle     int
	Acquired int
}

// PgxPoolStats reads stats from a pgx pool.
func PgxPoolStats(pool *pgxpool.Pool) func() DBStats {
	return func() DBStats {
		s := pool.Stat()
		return DBStats{
			Total:    int(s.TotalConns()),
			Idle:     int(s.IdleConns()),
			Acquired: int(s.AcquiredConns()),
		}
	}
}

// SQLDBStats reads stats from a database/sql handle.
func SQLDBStats(db *sql.DB) func() DBStats {
	return func() DBStats {
		s := db.Stats()
		return DBStats{
			Total:    s.OpenConnections,
			Idle:     s.Idle,
			Acquired: s.InUse,
		}
	}
}

// StartDBStatsCollector polls stats every interval until ctx is done.
func StartDBStatsCollector(ctx context.Context, interval time.Duration, stats func() DBStats) {
	record := func() {
		s := stats()
		dbConnectionPoolStats.WithLabelValues("total").Set(float64(s.Total))
		dbConnectionPoolStats.WithLabelValues("idle").Set(float64(s.Idle))
		dbConnectionPoolStats.WithLabelValues("acquired").Set(float64(s.Acquired))
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		record()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				record()
			}
		}
	}()
}
