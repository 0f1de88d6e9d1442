package automation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/metrics"
	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/models"
)

// ExecutionSink persists execution records. Appends happen after dispatch
// completes, one record per rule-event match.
type ExecutionSink interface {
	Append(ctx context.Context, exec models.WorkflowExecution) error
}

// Recorder writes execution records best-effort. A failed write goes to
// logs and metrics only; it is never surfaced to the event producer and
// never interrupts the processing pipeline.
type Recorder struct {
	sink    ExecutionSink
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type RecorderOption func(*Recorder)

func WithRecorderLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		r.logger = logger
	}
}

func WithRecorderMetrics(m *metrics.Metrics) RecorderOption {
	return func(r *Recorder) {
		r.metrics = m
	}
}

func NewRecorder(sink ExecutionSink, opts ...RecorderOption) (*Recorder, error) {
	if sink == nil {
		return nil, fmt.Errorf("execution sink is required")
	}

	rec := &Recorder{sink: sink}
	for _, opt := range opts {
		opt(rec)
	}
	if rec.logger == nil {
		rec.logger = slog.Default()
	}
	return rec, nil
}

// Record persists one execution record. It has no error return; callers
// must not branch on persistence outcomes.
func (r *Recorder) Record(ctx context.Context, exec models.WorkflowExecution) {
	if err := r.sink.Append(ctx, exec); err != nil {
		r.metrics.RecorderFailure()
		r.logger.ErrorContext(ctx, "failed to record execution",
			"execution_id", exec.ID,
			"rule_id", exec.RuleID,
			"event_id", exec.EventID,
			"status", exec.Status,
			"error", err,
		)
	}
}
