// Package metrics exposes Prometheus instrumentation for the qualification
// pipeline. Registered on the default registry; scraped via /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Qualifications counts completed qualification runs by decision.
	Qualifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sdrops_qualifications_total",
		Help: "Completed qualification runs by decision",
	}, []string{"decision"})

	// Escalations counts runs where at least one governance rule fired.
	Escalations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sdrops_escalations_total",
		Help: "Qualification runs flagged for human review",
	})

	// ModelErrors counts model adapter failures by kind.
	ModelErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sdrops_model_errors_total",
		Help: "Model adapter failures by error kind",
	}, []string{"kind"})

	// ModelRetries counts retried model calls.
	ModelRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sdrops_model_retries_total",
		Help: "Model calls retried after a transient failure",
	})

	// ModelLatency observes end-to-end model call duration in seconds,
	// including retries.
	ModelLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sdrops_model_latency_seconds",
		Help:    "Model generation latency in seconds",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	})

	// LeadsImported counts leads created through bulk import by source kind.
	LeadsImported = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sdrops_leads_imported_total",
		Help: "Leads created through bulk import by source",
	}, []string{"source"})
)
