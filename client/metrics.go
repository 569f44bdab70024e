package client

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "requestqa_client",
			Name:      "requests_total",
			Help:      "HTTP requests sent, by method and status code (\"error\" on transport failure).",
		},
		[]string{"method", "code"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "requestqa_client",
			Name:      "request_duration_seconds",
			Help:      "Round-trip latency of API requests.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

func observeRequest(method string, resp *http.Response, d time.Duration) {
	code := "error"
	if resp != nil {
		code = strconv.Itoa(resp.StatusCode)
	}
	requestsTotal.WithLabelValues(method, code).Inc()
	requestDuration.WithLabelValues(method).Observe(d.Seconds())
}
