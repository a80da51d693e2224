package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for PersonOperations.
const (
	OutcomeOK         = "ok"
	OutcomeAbsent     = "absent"
	OutcomeInvalid    = "invalid"
	OutcomeNotFound   = "not_found"
	OutcomeStoreError = "store_error"
)

var (
	PersonOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "persondb", Name: "person_operations_total", Help: "Number of person repository operations by operation and outcome."},
		[]string{"op", "outcome"},
	)
	PersonOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "persondb", Name: "person_operation_duration_seconds", Help: "Latency of person repository operations.", Buckets: prometheus.DefBuckets},
		[]string{"op"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "persondb", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "persondb", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(PersonOperations)
	reg.MustRegister(PersonOperationDuration)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
