// Package metrics registers the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Update outcomes.
const (
	OutcomeUpdated  = "updated"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeFailed   = "failed"
)

var (
	ComplaintUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gna_complaint_updates_total",
		Help: "Complaint status updates by outcome.",
	}, []string{"outcome"})

	SnapshotsBroadcast = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gna_snapshots_broadcast_total",
		Help: "Complaint list snapshots pushed to live viewers.",
	})

	LiveViewers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gna_live_viewers",
		Help: "Currently connected live list viewers.",
	})
)
