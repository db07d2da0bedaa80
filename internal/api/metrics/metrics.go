// Package metrics defines and registers all custom Prometheus metrics for the
// FreelanceOS API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry through promauto
// when the package is imported.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "freelanceos"

// ── Email metrics ─────────────────────────────────────────────────────────────

// EmailsSentTotal counts outbound email delivery attempts.
// Labels:
//   - kind: message kind ("invoice", "follow_up")
//   - result: "sent", "failed" or "dropped"
var EmailsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_sent_total",
		Help:      "Total number of outbound emails, by kind and result.",
	},
	[]string{"kind", "result"},
)

// EmailQueueDepth tracks messages waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var EmailQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "email_queue_depth",
		Help:      "Current number of emails pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// EmailDeliveryDuration measures how long the mail provider takes per message.
var EmailDeliveryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "email_delivery_duration_seconds",
		Help:      "Duration of a single email delivery call.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)

// ── Payment metrics ───────────────────────────────────────────────────────────

// PaymentsCreatedTotal counts new payment milestones.
// Label:
//   - currency: ISO 4217 code
var PaymentsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_created_total",
		Help:      "Total number of payment milestones created, by currency.",
	},
	[]string{"currency"},
)

// PaymentStatusTransitionsTotal counts user-driven payment status changes.
var PaymentStatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_status_transitions_total",
		Help:      "Total number of payment status changes, by from and to status.",
	},
	[]string{"from", "to"},
)

// PaymentsMarkedOverdueTotal counts payments flipped to overdue by the sweep
// or the on-demand check.
var PaymentsMarkedOverdueTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_marked_overdue_total",
		Help:      "Total number of payments marked overdue.",
	},
)

// OverdueSweepRunsTotal counts scheduled sweep runs.
// Label:
//   - result: "ok", "skipped" (lock held elsewhere) or "error"
var OverdueSweepRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "overdue_sweep_runs_total",
		Help:      "Total number of scheduled overdue sweeps, by result.",
	},
	[]string{"result"},
)

// ── Client & scope metrics ────────────────────────────────────────────────────

// ClientsImportedTotal counts CSV import rows.
// Label:
//   - result: "imported" or "rejected"
var ClientsImportedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "clients_imported_total",
		Help:      "Total number of CSV client rows, by result.",
	},
	[]string{"result"},
)

// ScopeVersionsCreatedTotal counts new scope versions.
var ScopeVersionsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scope_versions_created_total",
		Help:      "Total number of scope versions created.",
	},
)
