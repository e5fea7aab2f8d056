package ingest

import "github.com/prometheus/client_golang/prometheus"

var (
	readingsProcessedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "roomsentry_readings_processed_total",
			Help: "Total number of sensor readings that passed the change gate.",
		},
	)
	readingsSkippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomsentry_readings_skipped_total",
			Help: "Total number of sensor readings dropped before classification.",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(readingsProcessedTotal)
	prometheus.MustRegister(readingsSkippedTotal)
}
