package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	promOnce sync.Once
	promMw   *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the Prometheus HTTP middleware for the service. The
// middleware registers collectors in the default registry, so it is created
// once per process.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promMw = fiberprometheus.New(serviceName)
	})
	return promMw
}

// MetricsMiddleware returns the Fiber handler recording per-route metrics.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campushub_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// SyncAttempts counts enrollment reconciliation attempts by outcome.
	SyncAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campushub_sync_attempts_total",
		Help: "Total number of enrollment sync attempts by outcome",
	}, []string{"outcome"})

	// SyncDuration records enrollment reconciliation latency.
	SyncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "campushub_sync_duration_seconds",
		Help:    "Enrollment sync duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// EngagementOps counts like/unlike operations by entity and action.
	EngagementOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campushub_engagement_ops_total",
		Help: "Total number of engagement operations by entity and action",
	}, []string{"entity", "action"})
)
