// Package metrics exposes request and store metrics in Prometheus format.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "userapi"

// UserCounter reports how many users are currently stored
type UserCounter interface {
	CountUsers(ctx context.Context) (int, error)
}

// Collector owns a private registry with the HTTP and store metrics
type Collector struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewCollector creates a collector whose stored-users gauge is read from counter on each scrape
func NewCollector(counter UserCounter, logger *zap.Logger) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	storedUsers := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stored_users",
		Help:      "Number of users currently held in the store.",
	}, func() float64 {
		n, err := counter.CountUsers(context.Background())
		if err != nil {
			logger.Warn("Failed to count users for metrics", zap.Error(err))
			return 0
		}
		return float64(n)
	})

	registry.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		storedUsers,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Middleware records every request once the handler chain has finished
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		// unmatched routes are folded together to keep label cardinality bounded
		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := ctx.Request.Method

		c.requestsTotal.WithLabelValues(method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
		c.requestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}
