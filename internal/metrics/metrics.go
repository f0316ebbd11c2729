// Package metrics holds the prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "content_hub"

var (
	ServiceOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "service",
			Name:      "operations_total",
			Help:      "Entity service calls by entity, operation, and outcome kind",
		},
		[]string{"entity", "operation", "outcome"},
	)

	ExpiredTokensDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "expired_tokens_deleted_total",
			Help:      "Expired token rows removed by the cleanup job",
		},
	)

	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "login_attempts_total",
			Help:      "Login attempts by result",
		},
		[]string{"result"},
	)
)

// ObserveOperation counts one entity service call. outcome is "ok" or the
// error kind.
func ObserveOperation(entity, operation, outcome string) {
	ServiceOperationsTotal.WithLabelValues(entity, operation, outcome).Inc()
}
