package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	RestaurantMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restaurant_mutations_total",
			Help: "Total restaurant create/update/delete operations",
		},
		[]string{"action"},
	)

	AuthFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_failures_total",
			Help: "Total token verifications that failed",
		},
	)

	AuditQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "audit_queue_depth",
			Help: "Audit log writes waiting in the worker pool",
		},
	)
)

var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RestaurantMutations)
	prometheus.MustRegister(AuthFailures)
	prometheus.MustRegister(AuditQueueDepth)
}
