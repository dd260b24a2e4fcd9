// Package metrics defines and registers all custom Prometheus metrics for the
// job card front-end. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry on import and exposed on
// GET /metrics by the web tier.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "jobcards"

// ── Backend metrics ───────────────────────────────────────────────────────────

// BackendRequestsTotal counts calls made to the REST backend.
// Labels:
//   - route: the backend route template (e.g. "/api/jobs/:id")
//   - outcome: the HTTP status code, or "network_error"
var BackendRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Total number of REST backend calls, by route and outcome.",
	},
	[]string{"route", "outcome"},
)

// BackendRequestDuration measures backend round-trip time.
// Label:
//   - route: the backend route template
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of REST backend calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"route"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionTeardownsTotal counts sessions ended by the client.
// Label:
//   - reason: "logout" (user action) or "auth_rejected" (backend 401/403)
var SessionTeardownsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_teardowns_total",
		Help:      "Total number of sessions cleared, by reason.",
	},
	[]string{"reason"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok", "rejected", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Workflow metrics ──────────────────────────────────────────────────────────

// JobActionsTotal counts assignment and status transition attempts.
// Labels:
//   - action: "assign" or "status"
//   - result: "ok", "rejected" (client-side validation), "failed" (server)
var JobActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "job_actions_total",
		Help:      "Total number of job workflow actions, by action and result.",
	},
	[]string{"action", "result"},
)

// WizardSubmissionsTotal counts job creation submissions.
// Label:
//   - result: "ok", "rejected", "failed"
var WizardSubmissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "wizard_submissions_total",
		Help:      "Total number of job creation submissions, by result.",
	},
	[]string{"result"},
)

// AuditQueueDepth tracks events waiting in each audit worker channel.
// Label:
//   - worker_id: numeric worker index
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each worker channel.",
	},
	[]string{"worker_id"},
)
