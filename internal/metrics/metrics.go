// Package metrics exposes Prometheus collectors for the intake pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pipeline run metrics
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caseflow_intake_runs_total",
			Help: "Total number of pipeline runs",
		},
		[]string{"kind", "outcome"},
	)

	FallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "caseflow_intake_fallbacks_total",
			Help: "Total number of pipeline-wide fallback responses",
		},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "caseflow_intake_stage_duration_seconds",
			Help:    "Duration of each pipeline stage in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	// Stage degradation metrics
	ClassifierDefaultsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "caseflow_intake_classifier_defaults_total",
			Help: "Total number of classifications that fell back to defaults",
		},
	)

	TrustOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caseflow_intake_trust_outcomes_total",
			Help: "Trust assessment outcomes by state",
		},
		[]string{"state"},
	)

	QuarantinedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "caseflow_intake_quarantined_total",
			Help: "Total number of items routed to quarantine",
		},
	)

	// Audit sink metrics
	AuditWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caseflow_intake_audit_writes_total",
			Help: "Audit record writes by sink and status",
		},
		[]string{"sink", "status"},
	)
)
