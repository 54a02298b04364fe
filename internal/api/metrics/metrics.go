// Package metrics defines and registers all custom Prometheus metrics for the
// tracker API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics register with the default Prometheus registry at package init; the
// router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tracker"

// ── Workflow metrics ──────────────────────────────────────────────────────────

// StatusTransitionsTotal counts applied task status transitions.
// Labels:
//   - from: the previous status (e.g. "Backlog")
//   - to: the status applied by the transition
var StatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Total number of task status transitions successfully applied.",
	},
	[]string{"from", "to"},
)

// WorkflowRejectionsTotal counts mutations rejected by workflow validation.
// Label:
//   - reason: short failure code (e.g. "assignee_required", "assignee_inactive")
var WorkflowRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "workflow_rejections_total",
		Help:      "Total number of task mutations rejected by workflow validation.",
	},
	[]string{"reason"},
)

// TasksCreatedTotal counts newly created tasks by initial status.
var TasksCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_created_total",
		Help:      "Total number of tasks created, by initial status.",
	},
	[]string{"status"},
)

// VersionConflictsTotal counts optimistic-concurrency write races, including
// those resolved by the single retry.
var VersionConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "version_conflicts_total",
		Help:      "Total number of task writes that lost the version race.",
	},
)

// ── Audit trail metrics ───────────────────────────────────────────────────────

// AuditQueueDepth tracks the current number of events waiting in each worker
// channel. Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditEventsWrittenTotal counts audit events persisted successfully.
var AuditEventsWrittenTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_written_total",
		Help:      "Total number of audit events written to the store.",
	},
)

// AuditEventErrorsTotal counts audit events that failed to persist.
var AuditEventErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_event_errors_total",
		Help:      "Total number of audit events that failed to persist.",
	},
)
