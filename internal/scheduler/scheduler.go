// Package scheduler synthesizes time-derived events. A ticker loop scans
// registered sources each interval, runs every firing through a fire guard
// so persistent conditions do not refire every tick, and hands accepted
// firings to the engine through the same ingress as external events.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/models"
	"github.com/DRYTRIX/TimeTracker-sub005/internal/scheduler/fireguard"
)

var (
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tt_automation_scheduler_tick_seconds",
		Help:    "Duration of full scheduler ticks across all source scans",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
	})
	scanErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tt_automation_scheduler_scan_errors_total",
		Help: "Total source scans that failed, by trigger",
	}, []string{"trigger"})
	firingsSuppressed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tt_automation_scheduler_suppressed_total",
		Help: "Total firings suppressed by the fire guard",
	})
)

const (
	defaultInterval = time.Minute
	defaultGuardTTL = time.Hour
)

// Acceptor is the engine-side ingress the scheduler feeds.
type Acceptor interface {
	Accept(ctx context.Context, trigger models.TriggerType, payload map[string]any, source models.EventSource, occurredAt time.Time) (models.Event, error)
}

// Firing is one pending synthetic event produced by a source scan.
type Firing struct {
	// Key dedupes the firing across ticks. An empty key bypasses the guard.
	Key        string
	Payload    map[string]any
	OccurredAt time.Time
}

// Source scans the tracker for one trigger kind.
type Source struct {
	Trigger models.TriggerType
	Scan    func(ctx context.Context) ([]Firing, error)
}

// Scheduler drives the periodic source scans.
type Scheduler struct {
	acceptor Acceptor
	sources  []Source
	guard    fireguard.FireGuard
	interval time.Duration
	guardTTL time.Duration
	logger   *slog.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithInterval sets the tick interval.
func WithInterval(interval time.Duration) Option {
	return func(s *Scheduler) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithGuard replaces the in-memory fire guard, typically with the Redis
// guard for multi-instance deployments.
func WithGuard(guard fireguard.FireGuard) Option {
	return func(s *Scheduler) {
		if guard != nil {
			s.guard = guard
		}
	}
}

// WithGuardTTL sets how long a fired key suppresses refiring.
func WithGuardTTL(ttl time.Duration) Option {
	return func(s *Scheduler) {
		if ttl > 0 {
			s.guardTTL = ttl
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a scheduler over the given sources.
func New(acceptor Acceptor, sources []Source, opts ...Option) (*Scheduler, error) {
	if acceptor == nil {
		return nil, fmt.Errorf("acceptor is required")
	}

	s := &Scheduler{
		acceptor: acceptor,
		sources:  sources,
		guard:    fireguard.NewMemory(),
		interval: defaultInterval,
		guardTTL: defaultGuardTTL,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Run ticks until ctx is cancelled. Scan and guard failures are logged and
// the loop keeps going; only cancellation stops it.
func (s *Scheduler) Run(ctx context.Context) error {
	if len(s.sources) == 0 {
		s.logger.WarnContext(ctx, "scheduler started with no sources")
	}
	s.logger.InfoContext(ctx, "scheduler started",
		"interval", s.interval.String(),
		"guard_ttl", s.guardTTL.String(),
		"sources", len(s.sources),
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Tick(ctx)
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "scheduler stopped")
			return ctx.Err()
		}
	}
}

// Tick runs one full scan of all sources. Exported for testability; Run
// calls it on every ticker beat.
func (s *Scheduler) Tick(ctx context.Context) {
	start := time.Now()
	defer func() {
		tickDuration.Observe(time.Since(start).Seconds())
	}()

	for _, source := range s.sources {
		firings, err := source.Scan(ctx)
		if err != nil {
			scanErrors.WithLabelValues(string(source.Trigger)).Inc()
			s.logger.WarnContext(ctx, "scheduler scan failed",
				"trigger", source.Trigger,
				"error", err,
			)
			continue
		}
		for _, firing := range firings {
			s.fire(ctx, source.Trigger, firing)
		}
	}
}

func (s *Scheduler) fire(ctx context.Context, trigger models.TriggerType, firing Firing) {
	if firing.Key != "" {
		first, err := s.guard.FirstFire(ctx, firing.Key, s.guardTTL)
		if err != nil {
			// Fail open: a broken guard must not silence the scheduler.
			// Duplicate suppression is best effort.
			s.logger.WarnContext(ctx, "fire guard check failed",
				"key", firing.Key,
				"error", err,
			)
		} else if !first {
			firingsSuppressed.Inc()
			return
		}
	}

	event, err := s.acceptor.Accept(ctx, trigger, firing.Payload, models.SourceScheduler, firing.OccurredAt)
	if err != nil {
		s.logger.WarnContext(ctx, "scheduler event rejected",
			"trigger", trigger,
			"error", err,
		)
		return
	}

	s.logger.DebugContext(ctx, "scheduler event accepted",
		"event_id", event.ID,
		"trigger", trigger,
	)
}
