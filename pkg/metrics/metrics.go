package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, path and status",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	alertsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "alerts_created_total",
		Help: "Emergency alert events accepted",
	})

	alertRecipientsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alert_recipients_total",
		Help: "Fan-out recipients by outcome",
	}, []string{"outcome"}) // registered | skipped

	pushDeliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "push_deliveries_total",
		Help: "Push delivery attempts by outcome",
	}, []string{"outcome"}) // ok | error
)

func AlertCreated()        { alertsCreatedTotal.Inc() }
func RecipientRegistered() { alertRecipientsTotal.WithLabelValues("registered").Inc() }
func RecipientSkipped()    { alertRecipientsTotal.WithLabelValues("skipped").Inc() }
func PushDelivered()       { pushDeliveriesTotal.WithLabelValues("ok").Inc() }
func PushFailed()          { pushDeliveriesTotal.WithLabelValues("error").Inc() }

// MonitorMiddleware records request counters and latency per route.
func MonitorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		httpRequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).
			Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
