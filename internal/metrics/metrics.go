// Package metrics defines the application's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsProcessed counts normalized inbound events by kind.
	EventsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "motobot_events_processed_total",
		Help: "Inbound events processed, by event kind.",
	}, []string{"kind"})

	// DedupHits counts redelivered messages dropped by the ledger.
	DedupHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "motobot_dedup_hits_total",
		Help: "Inbound messages skipped because their source id was already claimed.",
	})

	// SendFailures counts outbound gateway delivery failures.
	SendFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "motobot_send_failures_total",
		Help: "Outbound message sends that failed after the transition committed.",
	})

	// CollaboratorErrors counts external service failures by service.
	CollaboratorErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "motobot_collaborator_errors_total",
		Help: "External collaborator call failures, by service.",
	}, []string{"service"})

	// VersionConflicts counts optimistic-lock retries on the session store.
	VersionConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "motobot_session_version_conflicts_total",
		Help: "Session writes that lost the optimistic-lock race and were retried.",
	})

	// AdminOps counts admin bridge operations by name.
	AdminOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "motobot_admin_ops_total",
		Help: "Admin bridge operations applied, by operation.",
	}, []string{"op"})

	// SweeperResets counts idle sessions reset to the main menu.
	SweeperResets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "motobot_sweeper_resets_total",
		Help: "Idle sessions reset to the main menu by the sweeper.",
	})
)
