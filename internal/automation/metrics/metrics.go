package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the automation module. All methods are
// nil-safe so tests and partial wirings can pass a nil receiver.
type Metrics struct {
	// Events accepted into the queue, by trigger type
	EventsAccepted *prometheus.CounterVec

	// Events rejected at admission, by reason
	EventsRejected *prometheus.CounterVec

	// Rules matched across all processed events
	RulesMatched prometheus.Counter

	// Execution records produced, by final status
	Executions *prometheus.CounterVec

	// Execution records that could not be persisted
	RecorderFailures prometheus.Counter

	// Per-action handler latency, by action type
	ActionDuration *prometheus.HistogramVec

	// Full per-event pipeline latency (match plus dispatch plus record)
	EventProcessing prometheus.Histogram
}

// New creates a Metrics instance with all automation module metrics registered.
func New() *Metrics {
	return &Metrics{
		EventsAccepted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tt_automation_events_accepted_total",
			Help: "Total events accepted into the processing queue by trigger type",
		}, []string{"trigger"}),

		EventsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tt_automation_events_rejected_total",
			Help: "Total events rejected at admission by reason",
		}, []string{"reason"}), // reason: "validation", "queue_full"

		RulesMatched: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tt_automation_rules_matched_total",
			Help: "Total rules matched across all processed events",
		}),

		Executions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tt_automation_executions_total",
			Help: "Total workflow executions by final status",
		}, []string{"status"}),

		RecorderFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tt_automation_recorder_failures_total",
			Help: "Total execution records that failed to persist",
		}),

		ActionDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tt_automation_action_duration_seconds",
			Help:    "Duration of action handler invocations by action type",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"action"}),

		EventProcessing: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tt_automation_event_processing_seconds",
			Help:    "Duration of full event processing including matching, dispatch, and recording",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// EventAccepted records an event entering the queue.
func (m *Metrics) EventAccepted(trigger string) {
	if m != nil {
		m.EventsAccepted.WithLabelValues(trigger).Inc()
	}
}

// EventRejected records an event refused at admission.
func (m *Metrics) EventRejected(reason string) {
	if m != nil {
		m.EventsRejected.WithLabelValues(reason).Inc()
	}
}

// AddRulesMatched records how many rules one event fired.
func (m *Metrics) AddRulesMatched(n int) {
	if m != nil && n > 0 {
		m.RulesMatched.Add(float64(n))
	}
}

// ExecutionRecorded records a finished execution by status.
func (m *Metrics) ExecutionRecorded(status string) {
	if m != nil {
		m.Executions.WithLabelValues(status).Inc()
	}
}

// RecorderFailure records a failed execution-record write.
func (m *Metrics) RecorderFailure() {
	if m != nil {
		m.RecorderFailures.Inc()
	}
}

// ObserveActionDuration records the duration of one action invocation.
func (m *Metrics) ObserveActionDuration(action string, d time.Duration) {
	if m != nil {
		m.ActionDuration.WithLabelValues(action).Observe(d.Seconds())
	}
}

// ObserveEventProcessing records the duration of one event's full pipeline.
func (m *Metrics) ObserveEventProcessing(d time.Duration) {
	if m != nil {
		m.EventProcessing.Observe(d.Seconds())
	}
}
