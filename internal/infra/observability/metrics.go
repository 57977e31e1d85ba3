// Package observability defines the Prometheus metrics for the point
// ledger service. Metrics are registered once via promauto and shared by
// the API, CLI and ingestion pipeline.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecordsAppended counts records committed through direct mutation.
	RecordsAppended = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pledgepoints_records_appended_total",
		Help: "Point records appended through direct ledger mutation.",
	})

	// RecordsApproved counts approval transitions, by resulting status.
	RecordsApproved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pledgepoints_approval_transitions_total",
		Help: "Approval state transitions applied, labeled by new status.",
	}, []string{"status"})

	// RecordsDeleted counts records removed by delete-unapproved sweeps.
	RecordsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pledgepoints_records_deleted_total",
		Help: "Records removed by delete-unapproved sweeps.",
	})

	// IngestAccepted counts candidates committed by ingestion batches.
	IngestAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pledgepoints_ingest_accepted_total",
		Help: "Chat messages ingested as pending point records.",
	})

	// IngestRejected counts messages dropped as malformed or off-roster.
	IngestRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pledgepoints_ingest_rejected_total",
		Help: "Chat messages dropped during ingestion.",
	})

	// IngestDuplicates counts candidates skipped by duplicate detection.
	IngestDuplicates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pledgepoints_ingest_duplicates_total",
		Help: "Candidates skipped because they were already committed.",
	})

	// PendingRecords tracks the pending backlog after each mutation.
	PendingRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pledgepoints_pending_records",
		Help: "Records currently awaiting approval.",
	})
)
