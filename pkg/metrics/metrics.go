package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ServerMetrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec

	// Notifications counts dispatch attempts per channel and outcome
	// (sent/failed/skipped). CascadeLines counts cart lines removed by
	// catalog archive/delete cascades.
	Notifications *prometheus.CounterVec
	CascadeLines  prometheus.Counter
}

func NewServerMetrics(service string) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cafe",
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cafe",
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler"})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cafe",
		Subsystem: service,
		Name:      "notifications_total",
		Help:      "Notification dispatch attempts by channel and outcome.",
	}, []string{"channel", "status"})
	cascade := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cafe",
		Subsystem: service,
		Name:      "cart_cascade_lines_total",
		Help:      "Cart lines removed by catalog availability cascades.",
	})

	prometheus.MustRegister(requests, latency, notifications, cascade)
	return &ServerMetrics{
		Requests:      requests,
		LatencyMS:     latency,
		Notifications: notifications,
		CascadeLines:  cascade,
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
