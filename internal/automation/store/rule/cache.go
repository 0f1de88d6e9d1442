package rule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/models"
	id "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain"
	"github.com/DRYTRIX/TimeTracker-sub005/pkg/platform/sentinel"
)

const defaultCacheTTL = 30 * time.Second

// CachedStore serves rule reads from an in-process snapshot refreshed from
// the underlying store. Matching happens on every event, so reads must not
// pay a round trip each time; the snapshot is swapped whole, which also
// gives matchers their consistency guarantee for free.
//
// When a refresh fails and a previous snapshot exists, the stale snapshot
// keeps serving and the failure goes to the log.
type CachedStore struct {
	source Store
	ttl    time.Duration
	logger *slog.Logger

	mu        sync.RWMutex
	snapshot  []models.WorkflowRule
	loaded    bool
	expiresAt time.Time
}

type CacheOption func(*CachedStore)

func WithCacheTTL(ttl time.Duration) CacheOption {
	return func(c *CachedStore) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *CachedStore) {
		c.logger = logger
	}
}

func NewCached(source Store, opts ...CacheOption) (*CachedStore, error) {
	if source == nil {
		return nil, fmt.Errorf("rule store is required")
	}

	c := &CachedStore{
		source: source,
		ttl:    defaultCacheTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

// Invalidate expires the snapshot so the next read refreshes. Safe to call
// from any goroutine; the change-notification listener calls it.
func (c *CachedStore) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expiresAt = time.Time{}
}

func (c *CachedStore) ListByTrigger(ctx context.Context, trigger models.TriggerType) ([]models.WorkflowRule, error) {
	snapshot, err := c.current(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]models.WorkflowRule, 0, len(snapshot))
	for _, r := range snapshot {
		if r.Enabled && r.TriggerType == trigger {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

func (c *CachedStore) List(ctx context.Context) ([]models.WorkflowRule, error) {
	snapshot, err := c.current(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.WorkflowRule, len(snapshot))
	copy(out, snapshot)
	return out, nil
}

func (c *CachedStore) Get(ctx context.Context, ruleID id.RuleID) (models.WorkflowRule, error) {
	snapshot, err := c.current(ctx)
	if err != nil {
		return models.WorkflowRule{}, err
	}
	for _, r := range snapshot {
		if r.ID == ruleID {
			return r, nil
		}
	}
	return models.WorkflowRule{}, sentinel.ErrNotFound
}

// current returns the live snapshot, refreshing it when expired.
func (c *CachedStore) current(ctx context.Context) ([]models.WorkflowRule, error) {
	c.mu.RLock()
	if c.loaded && time.Now().Before(c.expiresAt) {
		snapshot := c.snapshot
		c.mu.RUnlock()
		return snapshot, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded && time.Now().Before(c.expiresAt) {
		return c.snapshot, nil
	}

	rules, err := c.source.List(ctx)
	if err != nil {
		if c.loaded {
			c.logger.WarnContext(ctx, "rule refresh failed, serving stale snapshot",
				"rules", len(c.snapshot),
				"error", err,
			)
			return c.snapshot, nil
		}
		return nil, fmt.Errorf("load rule snapshot: %w", err)
	}

	valid := make([]models.WorkflowRule, 0, len(rules))
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			c.logger.WarnContext(ctx, "skipping invalid stored rule",
				"rule_id", r.ID,
				"rule_name", r.Name,
				"error", err,
			)
			continue
		}
		valid = append(valid, r)
	}

	c.snapshot = valid
	c.loaded = true
	c.expiresAt = time.Now().Add(c.ttl)
	return c.snapshot, nil
}
