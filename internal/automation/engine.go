// Package automation implements the workflow rule engine: events come in
// through Accept, worker goroutines match them against stored rules, matched
// rules' actions run through registered handlers, and every rule-event match
// leaves one execution record behind.
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/metrics"
	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/models"
	dErrors "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain-errors"
	"github.com/DRYTRIX/TimeTracker-sub005/pkg/platform/sentinel"
	"github.com/DRYTRIX/TimeTracker-sub005/pkg/requestcontext"
)

var tracer = otel.Tracer("automation")

const (
	defaultQueueSize    = 256
	defaultWorkers      = 4
	defaultEventTimeout = 30 * time.Second
)

// Engine accepts events and processes them asynchronously. The queue is
// FIFO, so events are picked up in arrival order; a single event's full
// matching-plus-dispatch pipeline stays on one worker, while distinct
// events may be processed in parallel.
type Engine struct {
	matcher    *Matcher
	dispatcher *Dispatcher
	recorder   *Recorder

	queue        chan models.Event
	queueSize    int
	workers      int
	eventTimeout time.Duration
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithQueueSize bounds how many accepted events may wait for a worker.
func WithQueueSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.queueSize = n
		}
	}
}

// WithWorkers sets how many events may be processed concurrently.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithEventTimeout sets the per-event processing deadline. When it expires
// mid-event, actions not yet started are recorded as cancelled.
func WithEventTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.eventTimeout = d
		}
	}
}

func New(matcher *Matcher, dispatcher *Dispatcher, recorder *Recorder, opts ...Option) (*Engine, error) {
	if matcher == nil {
		return nil, fmt.Errorf("matcher is required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("recorder is required")
	}

	e := &Engine{
		matcher:      matcher,
		dispatcher:   dispatcher,
		recorder:     recorder,
		queueSize:    defaultQueueSize,
		workers:      defaultWorkers,
		eventTimeout: defaultEventTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	e.queue = make(chan models.Event, e.queueSize)
	return e, nil
}

// Accept validates an event and places it on the processing queue. It
// returns as soon as the event is queued and never waits on matching or
// dispatch; the query API is the only place downstream outcomes become
// visible. A full queue rejects the event so ingestion backpressure stays
// visible to the producer.
func (e *Engine) Accept(ctx context.Context, trigger models.TriggerType, payload map[string]any, source models.EventSource, occurredAt time.Time) (models.Event, error) {
	event, err := models.NewEvent(trigger, payload, source, occurredAt, requestcontext.Now(ctx))
	if err != nil {
		e.metrics.EventRejected("validation")
		return models.Event{}, err
	}

	select {
	case e.queue <- event:
	default:
		e.metrics.EventRejected("queue_full")
		return models.Event{}, dErrors.Wrap(sentinel.ErrQueueFull, dErrors.CodeUnavailable, "event queue full")
	}

	e.metrics.EventAccepted(string(event.Type))
	e.logger.DebugContext(ctx, "event accepted",
		"event_id", event.ID,
		"trigger", event.Type,
		"source", event.Source,
	)
	return event, nil
}

// Run starts the worker pool and blocks until ctx is cancelled. Events
// still queued at shutdown are dropped; durable ingestion is the
// producer's concern.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.InfoContext(ctx, "automation engine started",
		"workers", e.workers,
		"queue_size", e.queueSize,
		"event_timeout", e.eventTimeout,
	)

	var wg sync.WaitGroup
	wg.Add(e.workers)
	for i := 0; i < e.workers; i++ {
		go func() {
			defer wg.Done()
			e.worker(ctx)
		}()
	}
	wg.Wait()

	e.logger.InfoContext(ctx, "automation engine stopped")
	return ctx.Err()
}

func (e *Engine) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-e.queue:
			e.process(ctx, event)
		}
	}
}

// process runs one event through matching, dispatch, and recording. No
// failure in here is fatal to the worker.
func (e *Engine) process(ctx context.Context, event models.Event) {
	start := time.Now()
	defer func() {
		e.metrics.ObserveEventProcessing(time.Since(start))
	}()

	ctx, span := tracer.Start(ctx, "automation.process_event", trace.WithAttributes(
		attribute.String("event_id", event.ID.String()),
		attribute.String("trigger", string(event.Type)),
		attribute.String("source", string(event.Source)),
	))
	defer span.End()

	eventCtx, cancel := context.WithTimeout(ctx, e.eventTimeout)
	defer cancel()

	matchCtx, matchSpan := tracer.Start(eventCtx, "automation.match")
	rules, err := e.matcher.Match(matchCtx, event)
	matchSpan.End()
	if err != nil {
		span.RecordError(err)
		e.logger.ErrorContext(ctx, "failed to match rules",
			"event_id", event.ID,
			"trigger", event.Type,
			"error", err,
		)
		return
	}

	e.metrics.AddRulesMatched(len(rules))
	span.SetAttributes(attribute.Int("matched_rules", len(rules)))
	if len(rules) == 0 {
		e.logger.DebugContext(ctx, "no rules matched",
			"event_id", event.ID,
			"trigger", event.Type,
		)
		return
	}

	for _, rule := range rules {
		dispatchCtx, dispatchSpan := tracer.Start(eventCtx, "automation.dispatch", trace.WithAttributes(
			attribute.String("rule_id", rule.ID.String()),
		))
		exec := e.dispatcher.Dispatch(dispatchCtx, rule, event)
		dispatchSpan.SetAttributes(attribute.String("status", string(exec.Status)))
		dispatchSpan.End()

		// Recording is bookkeeping, not cancellable work; it still runs
		// when the event deadline has expired.
		e.recorder.Record(context.WithoutCancel(ctx), exec)
		e.metrics.ExecutionRecorded(string(exec.Status))
	}
}
