package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ledger",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route template, method and status code",
	}, []string{"route", "method", "code"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ledger",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route template",
		// 统计接口走聚合 SQL，桶往上多放几档
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"route", "method"})

	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "ledger",
		Subsystem: "http",
		Name:      "in_flight_requests",
		Help:      "Requests currently being served",
	})
)

func init() { prometheus.MustRegister(httpRequests, httpDuration, httpInFlight) }

// Metrics 按路由模板统计；未匹配的路由归到 "unmatched"，避免标签基数失控
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		httpInFlight.Inc()
		start := time.Now()
		defer func() {
			httpInFlight.Dec()
			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
			httpDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
		}()
		c.Next()
	}
}
