// Package metrics defines the Prometheus instrumentation for the
// dispatch scheduler and the click tracking redirector. The scheduler
// has no hard pass deadline, so the pass duration histogram is the
// primary signal for spotting stuck passes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the collectors exposed on /metrics.
type Metrics struct {
	SchedulerPasses      prometheus.Counter
	SchedulerPassSeconds prometheus.Histogram
	TasksClaimed         prometheus.Counter
	TasksReclaimed       prometheus.Counter
	TasksCompleted       prometheus.Counter
	TasksFailed          prometheus.Counter
	SendsTotal           *prometheus.CounterVec
	ClicksTotal          *prometheus.CounterVec
}

// Send outcome label values
const (
	SendOutcomeAccepted = "accepted"
	SendOutcomeFailed   = "failed"
	SendOutcomeSkipped  = "skipped"
)

// Click visit label values
const (
	VisitFirst  = "first"
	VisitRepeat = "repeat"
)

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SchedulerPasses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lettermill_scheduler_passes_total",
			Help: "Number of scheduler passes started.",
		}),
		SchedulerPassSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lettermill_scheduler_pass_duration_seconds",
			Help:    "Wall-clock duration of scheduler passes.",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
		TasksClaimed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lettermill_tasks_claimed_total",
			Help: "Number of tasks claimed for processing.",
		}),
		TasksReclaimed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lettermill_tasks_reclaimed_total",
			Help: "Number of stale processing tasks reset to pending.",
		}),
		TasksCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lettermill_tasks_completed_total",
			Help: "Number of tasks that reached completed status.",
		}),
		TasksFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lettermill_tasks_failed_total",
			Help: "Number of tasks that reached failed status.",
		}),
		SendsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lettermill_sends_total",
			Help: "Per-recipient delivery attempts by outcome.",
		}, []string{"outcome"}),
		ClicksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lettermill_clicks_total",
			Help: "Tracked link visits by visit kind.",
		}, []string{"visit"}),
	}

	reg.MustRegister(
		m.SchedulerPasses,
		m.SchedulerPassSeconds,
		m.TasksClaimed,
		m.TasksReclaimed,
		m.TasksCompleted,
		m.TasksFailed,
		m.SendsTotal,
		m.ClicksTotal,
	)

	return m
}

// NewNop creates unregistered collectors for tests and for components
// constructed without a registry.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
