package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "rcbeam"

// Metrics holds the Prometheus collectors of the HTTP service.
type Metrics struct {
	// RequestsTotal counts requests by route and HTTP status code.
	RequestsTotal *prometheus.CounterVec

	// RequestDuration measures handler latency by route.
	RequestDuration *prometheus.HistogramVec

	// VerdictsTotal counts evaluated beams by verdict status.
	VerdictsTotal *prometheus.CounterVec

	// Utilization observes the governing utilization of evaluated beams.
	Utilization prometheus.Histogram
}

// NewMetrics creates and registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		VerdictsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "engine",
			Name:      "verdicts_total",
			Help:      "Evaluated beams by verdict status.",
		}, []string{"status"}),
		Utilization: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "engine",
			Name:      "utilization",
			Help:      "Governing utilization of evaluated beams.",
			Buckets:   []float64{0.25, 0.5, 0.75, 0.9, 1, 1.1, 1.5, 2},
		}),
	}
}

// middleware records request counts and latency per route.
func (m *Metrics) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
