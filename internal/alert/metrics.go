package alert

import "github.com/prometheus/client_golang/prometheus"

var (
	alertsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomsentry_alerts_created_total",
			Help: "Total number of alerts persisted, by type and severity.",
		},
		[]string{"type", "severity"},
	)
	alertsSuppressedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "roomsentry_alerts_suppressed_total",
			Help: "Total number of alert candidates suppressed by the dedup window.",
		},
	)
	alertAppendFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "roomsentry_alert_append_failures_total",
			Help: "Total number of alert candidates that failed to persist.",
		},
	)
)

func init() {
	prometheus.MustRegister(alertsCreatedTotal)
	prometheus.MustRegister(alertsSuppressedTotal)
	prometheus.MustRegister(alertAppendFailures)
}
