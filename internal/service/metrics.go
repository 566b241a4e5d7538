package service

import "github.com/prometheus/client_golang/prometheus"

// recordOps counts service operations by outcome kind ("ok" on success).
var recordOps = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "workout_record_operations_total",
		Help: "Workout record operations by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

func init() {
	prometheus.MustRegister(recordOps)
}

func observe(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = KindOf(err).String()
	}
	recordOps.WithLabelValues(op, outcome).Inc()
}
