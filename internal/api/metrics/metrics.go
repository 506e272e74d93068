// Package metrics defines and registers all custom Prometheus metrics of the
// job board API. It is the single source of truth for metric names, labels
// and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto and exposed on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "jobboard"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// SignupsTotal counts signup attempts.
// Label:
//   - result: "success", "invalid", "conflict" or "error"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_signups_total",
		Help:      "Total number of signup attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid", "invalid_credentials", "role_mismatch", "throttled" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenVerifyFailuresTotal counts session cookies that failed verification.
var TokenVerifyFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_token_verify_failures_total",
		Help:      "Total number of presented session tokens that were invalid or expired.",
	},
)

// GuardDecisionsTotal counts route guard outcomes.
// Labels:
//   - outcome: "allow" or "redirect"
//   - class: policy class of the path (e.g. "public", "employer_only")
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by outcome and path class.",
	},
	[]string{"outcome", "class"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsTotal counts audit events by final disposition.
// Labels:
//   - kind: the event kind (e.g. "login_failure")
//   - result: "stored", "dropped" or "failed"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of authentication audit events, by kind and result.",
	},
	[]string{"kind", "result"},
)

// AuditQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Domain metrics ────────────────────────────────────────────────────────────

// JobsCreatedTotal counts newly published job postings.
// Label:
//   - type: "FULL_TIME", "PART_TIME", "CONTRACT" or "INTERNSHIP"
var JobsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_created_total",
		Help:      "Total number of job postings created, by type.",
	},
	[]string{"type"},
)

// ApplicationsTotal counts submitted applications.
var ApplicationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applications_submitted_total",
		Help:      "Total number of job applications submitted.",
	},
)

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestDuration measures request latency.
// Labels:
//   - method: HTTP method
//   - route: the matched echo route pattern (e.g. "/api/jobs/:id")
//   - code: response status code
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests, by method, route and status code.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route", "code"},
)
