package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AdmissionAttemptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reservation_admission_attempts_total",
			Help: "Total number of tentative reservation attempts.",
		},
	)

	AdmissionOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservation_admission_outcomes_total",
			Help: "Tentative reservation outcomes by result.",
		},
		[]string{"outcome"}, // admitted, lock_contention, date_conflict, error
	)

	LeaseReleaseFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reservation_lease_release_failures_total",
			Help: "Lease releases that failed and were left to TTL expiry.",
		},
	)
)

const (
	OutcomeAdmitted       = "admitted"
	OutcomeLockContention = "lock_contention"
	OutcomeDateConflict   = "date_conflict"
	OutcomeError          = "error"
)
