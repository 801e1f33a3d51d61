// Package observability provides centralized Prometheus metrics for the
// auditor.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuditRunsTotal counts audit runs by outcome
	AuditRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_runs_total",
			Help: "Total number of audit runs",
		},
		[]string{"status"},
	)

	// AuditDuration measures end-to-end audit run duration in seconds
	AuditDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "audit_run_duration_seconds",
			Help:    "Audit run duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// SubscriptionsFound tracks the reconciled entity count of the latest run
	SubscriptionsFound = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "subscriptions_found",
			Help: "Subscriptions reconciled by the latest audit run",
		},
	)

	// RefundCandidates tracks refund-eligible entities in the latest run
	RefundCandidates = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "refund_candidates",
			Help: "Refund-eligible subscriptions in the latest audit run",
		},
	)

	// MonthlyCostTotal tracks the summed cost of the latest run
	MonthlyCostTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "monthly_cost_total",
			Help: "Total monthly subscription cost in the latest audit run",
		},
	)
)
