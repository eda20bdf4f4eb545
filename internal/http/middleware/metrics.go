// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file exposes Prometheus instrumentation for HTTP traffic plus the
// domain counter for completed risk assessments. Label cardinality stays
// bounded by labeling with the registered Gin route, not the raw URL.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// httpReqs counts requests by method, route path, and status code.
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// httpLat records request duration in seconds by method and route path.
	// Status is intentionally omitted to keep histogram cardinality low.
	httpLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// httpInflight gauges currently processing requests.
	httpInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_inflight",
			Help: "Current number of in-flight HTTP requests.",
		},
	)

	// predictionsTotal counts completed assessments by resulting risk level.
	predictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictions_total",
			Help: "Total number of completed risk assessments by risk level.",
		},
		[]string{"risk_level"},
	)
)

func init() {
	prometheus.MustRegister(httpReqs, httpLat, httpInflight, predictionsTotal)
}

// CountPrediction increments the assessment counter for one risk level.
// Called by the prediction handler after a successful assessment.
func CountPrediction(riskLevel string) {
	predictionsTotal.WithLabelValues(riskLevel).Inc()
}

// Metrics returns a Gin middleware that instruments requests with Prometheus:
// http_requests_total(method, path, status), http_request_duration_seconds
// (method, path), and the http_requests_inflight gauge. The path label uses
// c.FullPath() and falls back to the raw URL path when no route matched.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInflight.Inc()
		defer httpInflight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		httpReqs.WithLabelValues(method, path, status).Inc()
		httpLat.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
