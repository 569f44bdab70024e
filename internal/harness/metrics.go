package harness

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "requestqa",
			Subsystem: "harness",
			Name:      "checks_total",
			Help:      "Recorded checks by scenario group and outcome.",
		},
		[]string{"group", "outcome"},
	)

	scenarioDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "requestqa",
			Subsystem: "harness",
			Name:      "scenario_duration_seconds",
			Help:      "Wall time of each scenario.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"group"},
	)
)
