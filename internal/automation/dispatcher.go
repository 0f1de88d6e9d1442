package automation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/metrics"
	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/models"
	id "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain"
)

const defaultActionTimeout = 10 * time.Second

// Dispatcher runs a matched rule's actions in declared order and produces
// the execution record. Failures stay isolated: one action failing never
// stops the remaining actions of its rule, and nothing is rolled back.
type Dispatcher struct {
	registry      *HandlerRegistry
	actionTimeout time.Duration
	logger        *slog.Logger
	metrics       *metrics.Metrics
}

type DispatcherOption func(*Dispatcher)

func WithDispatcherLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func WithDispatcherMetrics(m *metrics.Metrics) DispatcherOption {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithActionTimeout bounds each handler invocation. Exceeding it yields a
// failed action result, never a stalled worker.
func WithActionTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.actionTimeout = timeout
		}
	}
}

func NewDispatcher(registry *HandlerRegistry, opts ...DispatcherOption) (*Dispatcher, error) {
	if registry == nil {
		return nil, fmt.Errorf("handler registry is required")
	}

	d := &Dispatcher{
		registry:      registry,
		actionTimeout: defaultActionTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d, nil
}

// Dispatch executes every action of one matched rule against one event and
// returns the execution record. Actions run sequentially in declared order.
// When ctx is already past the event deadline, actions that have not started
// are marked cancelled; an action that already started keeps running until
// it finishes or hits its own timeout.
func (d *Dispatcher) Dispatch(ctx context.Context, rule models.WorkflowRule, event models.Event) models.WorkflowExecution {
	started := time.Now()
	results := make([]models.ActionResult, 0, len(rule.Actions))

	for _, action := range rule.Actions {
		if ctx.Err() != nil {
			results = append(results, models.ActionResult{
				Type:      action.Type,
				Cancelled: true,
				Error:     "not started: event processing deadline exceeded",
				StartedAt: time.Now(),
			})
			continue
		}
		results = append(results, d.runAction(ctx, rule, event, action))
	}

	exec := models.WorkflowExecution{
		ID:            id.NewExecutionID(),
		RuleID:        rule.ID,
		RuleName:      rule.Name,
		EventID:       event.ID,
		TriggerType:   event.Type,
		Status:        models.DeriveStatus(results),
		ActionResults: results,
		StartedAt:     started,
		FinishedAt:    time.Now(),
	}

	d.logger.InfoContext(ctx, "rule dispatched",
		"rule_id", rule.ID,
		"rule_name", rule.Name,
		"event_id", event.ID,
		"trigger", event.Type,
		"status", exec.Status,
		"actions", len(results),
	)
	return exec
}

type handlerReturn struct {
	outcome ActionOutcome
	err     error
}

func (d *Dispatcher) runAction(ctx context.Context, rule models.WorkflowRule, event models.Event, spec models.ActionSpec) models.ActionResult {
	start := time.Now()
	result := models.ActionResult{Type: spec.Type, StartedAt: start}

	params, warnings := ResolveParams(rule, event, spec.Parameters)
	result.Warnings = warnings
	for _, w := range warnings {
		d.logger.WarnContext(ctx, "template resolution warning",
			"rule_id", rule.ID,
			"action", spec.Type,
			"warning", w,
		)
	}

	handler, ok := d.registry.Lookup(spec.Type)
	if !ok {
		result.Error = "no handler registered for action type: " + string(spec.Type)
		result.Duration = time.Since(start)
		d.observe(ctx, rule, event, spec, result)
		return result
	}

	// A started action is never cancelled by the event deadline; it runs to
	// completion or to its own timeout.
	actionCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.actionTimeout)
	defer cancel()

	// Buffered so a handler that finishes after the timeout can still
	// deliver its result without leaking the goroutine.
	done := make(chan handlerReturn, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- handlerReturn{err: fmt.Errorf("handler panic: %v", r)}
			}
		}()
		outcome, err := handler.Execute(actionCtx, params)
		done <- handlerReturn{outcome: outcome, err: err}
	}()

	select {
	case ret := <-done:
		if ret.err != nil {
			result.Error = ret.err.Error()
		} else {
			result.Success = true
			result.Detail = ret.outcome.Detail
		}
	case <-actionCtx.Done():
		result.Error = "action timed out after " + d.actionTimeout.String()
	}

	result.Duration = time.Since(start)
	d.observe(ctx, rule, event, spec, result)
	return result
}

func (d *Dispatcher) observe(ctx context.Context, rule models.WorkflowRule, event models.Event, spec models.ActionSpec, result models.ActionResult) {
	d.metrics.ObserveActionDuration(string(spec.Type), result.Duration)
	if result.Error != "" {
		d.logger.WarnContext(ctx, "action failed",
			"rule_id", rule.ID,
			"event_id", event.ID,
			"action", spec.Type,
			"error", result.Error,
		)
	}
}
