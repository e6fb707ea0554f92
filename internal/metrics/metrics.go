package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Technical metrics
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "biogeles_http_requests_total",
		Help: "Total number of HTTP requests served by the console",
	}, []string{"method", "path", "status"})

	ResponseTime = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "biogeles_http_response_time_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
	}, []string{"method", "path"})

	BackendUnauthorized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "biogeles_backend_unauthorized_total",
		Help: "Requests rejected by the backend because the session expired",
	})

	// Business metrics
	CalendarMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "biogeles_calendar_mutations_total",
		Help: "Production events created, updated or deleted",
	}, []string{"op"})

	OrderMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "biogeles_order_mutations_total",
		Help: "Orders created, updated or deleted",
	}, []string{"op"})

	ReportExports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "biogeles_report_exports_total",
		Help: "Report exports by target (xlsx, sheets, mongodb)",
	}, []string{"target"})

	AlertDigestsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "biogeles_alert_digests_sent_total",
		Help: "Alert digests delivered to operators",
	})
)
