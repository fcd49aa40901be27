package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const (
	ReminderOutcomeSent           = "sent"
	ReminderOutcomeDispatchFailed = "dispatch-failed"
	ReminderOutcomeRescheduled    = "rescheduled"
	ReminderOutcomeTerminal       = "terminal"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	ReconciliationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "engine_reconciliation_duration_seconds",
			Help:    "Duration of each association reconciliation in seconds.",
			Buckets: []float64{0.005, 0.025, 0.1, 0.5, 2, 10},
		},
	)
	AssociationsCreatedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_associations_created_total",
			Help: "Total number of associations created or restored.",
		},
	)
	AssociationsRemovedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_associations_removed_total",
			Help: "Total number of associations soft-deleted.",
		},
	)
	StatusChangesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_status_change_records_total",
			Help: "Total number of status change audit records appended.",
		},
	)
	RemindersCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_reminders_total",
			Help: "Total number of fired reminders by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)
)

func StartMetricsServer() {

	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(ReconciliationDuration)
	prometheus.MustRegister(AssociationsCreatedCounter)
	prometheus.MustRegister(AssociationsRemovedCounter)
	prometheus.MustRegister(StatusChangesCounter)
	prometheus.MustRegister(RemindersCounter)

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(":8080", nil))
	}()
}
