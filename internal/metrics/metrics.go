package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so several instances can coexist in tests
type Metrics struct {
	Registry *prometheus.Registry

	requestDuration *prometheus.SummaryVec
	requestTotal    *prometheus.CounterVec

	commentsCreated  *prometheus.CounterVec
	broadcastEvents  *prometheus.CounterVec
	broadcastDropped prometheus.Counter
	subscribers      prometheus.Gauge
}

// New registers all collectors on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		requestDuration: factory.NewSummaryVec(
			prometheus.SummaryOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request duration in seconds",
				Objectives: map[float64]float64{
					0.5:  0.05,
					0.9:  0.01,
					0.95: 0.005,
					0.99: 0.001,
				},
			},
			[]string{"method", "path", "status_code"},
		),
		requestTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		commentsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "comments_created_total",
				Help: "Comments and replies successfully persisted",
			},
			[]string{"kind"},
		),
		broadcastEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "broadcast_events_total",
				Help: "Events delivered to subscriber buffers",
			},
			[]string{"kind"},
		),
		broadcastDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "broadcast_dropped_total",
			Help: "Events dropped because a subscriber buffer was full",
		}),
		subscribers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "broadcast_subscribers",
			Help: "Currently connected subscribers",
		}),
	}
}

// Middleware records request count and latency per route
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		duration := time.Since(start).Seconds()
		method := ctx.Request.Method
		path := ctx.FullPath()
		if path == "" {
			path = "unmatched"
		}
		statusCode := strconv.Itoa(ctx.Writer.Status())

		m.requestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		m.requestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// Handler exposes the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// CommentCreated counts a persisted comment or reply
func (m *Metrics) CommentCreated(kind string) {
	m.commentsCreated.WithLabelValues(kind).Inc()
}

// EventDelivered counts an event handed to a subscriber
func (m *Metrics) EventDelivered(kind string) {
	m.broadcastEvents.WithLabelValues(kind).Inc()
}

// EventDropped counts an event a slow subscriber missed
func (m *Metrics) EventDropped() {
	m.broadcastDropped.Inc()
}

// SetSubscribers records the number of live subscribers
func (m *Metrics) SetSubscribers(n int) {
	m.subscribers.Set(float64(n))
}
