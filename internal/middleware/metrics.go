package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis errors by operation type.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "gastronauta_redis_errors_total",
	Help: "Total number of Redis errors by operation type",
}, []string{"operation"})

// UploadsCleaned counts image files removed by the storage cleaner, by outcome.
var UploadsCleaned = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "gastronauta_uploads_cleaned_total",
	Help: "Total number of upload files processed by the cleanup worker",
}, []string{"outcome"})

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the request-instrumentation handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
