package rule

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/models"
	id "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain"
	"github.com/DRYTRIX/TimeTracker-sub005/pkg/platform/sentinel"
)

// countingSource is a Store stub that tracks how often the cache reloads.
type countingSource struct {
	mu    sync.Mutex
	rules []models.WorkflowRule
	err   error
	calls int
}

func (c *countingSource) List(_ context.Context) ([]models.WorkflowRule, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	out := make([]models.WorkflowRule, len(c.rules))
	copy(out, c.rules)
	return out, nil
}

func (c *countingSource) ListByTrigger(_ context.Context, _ models.TriggerType) ([]models.WorkflowRule, error) {
	return nil, errors.New("cache must read through List")
}

func (c *countingSource) Get(_ context.Context, _ id.RuleID) (models.WorkflowRule, error) {
	return models.WorkflowRule{}, errors.New("cache must read through List")
}

func (c *countingSource) set(rules []models.WorkflowRule, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules = rules
	c.err = err
}

func (c *countingSource) listCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type CachedStoreSuite struct {
	suite.Suite
	source *countingSource
	cache  *CachedStore
	ctx    context.Context
}

func TestCachedStoreSuite(t *testing.T) {
	suite.Run(t, new(CachedStoreSuite))
}

func (s *CachedStoreSuite) SetupTest() {
	s.source = &countingSource{}
	cache, err := NewCached(s.source,
		WithCacheLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	s.Require().NoError(err)
	s.cache = cache
	s.ctx = context.Background()
}

func (s *CachedStoreSuite) storedRule(name string, trigger models.TriggerType) models.WorkflowRule {
	now := time.Now()
	return models.WorkflowRule{
		ID:          id.NewRuleID(),
		Name:        name,
		TriggerType: trigger,
		Actions:     []models.ActionSpec{{Type: models.ActionSendNotification}},
		Priority:    1,
		Enabled:     true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *CachedStoreSuite) TestServesSnapshotWithinTTL() {
	s.source.set([]models.WorkflowRule{s.storedRule("one", models.TriggerManual)}, nil)

	for i := 0; i < 3; i++ {
		rules, err := s.cache.List(s.ctx)
		s.Require().NoError(err)
		s.Len(rules, 1)
	}
	s.Equal(1, s.source.listCalls())
}

func (s *CachedStoreSuite) TestInvalidateForcesRefresh() {
	s.source.set([]models.WorkflowRule{s.storedRule("old", models.TriggerManual)}, nil)

	rules, err := s.cache.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rules, 1)
	s.Equal("old", rules[0].Name)

	s.source.set([]models.WorkflowRule{s.storedRule("new", models.TriggerManual)}, nil)
	s.cache.Invalidate()

	rules, err = s.cache.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rules, 1)
	s.Equal("new", rules[0].Name)
	s.Equal(2, s.source.listCalls())
}

func (s *CachedStoreSuite) TestTTLExpiryRefreshes() {
	cache, err := NewCached(s.source,
		WithCacheTTL(10*time.Millisecond),
		WithCacheLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	s.Require().NoError(err)
	s.source.set([]models.WorkflowRule{s.storedRule("one", models.TriggerManual)}, nil)

	_, err = cache.List(s.ctx)
	s.Require().NoError(err)
	time.Sleep(25 * time.Millisecond)
	_, err = cache.List(s.ctx)
	s.Require().NoError(err)

	s.Equal(2, s.source.listCalls())
}

func (s *CachedStoreSuite) TestServesStaleSnapshotOnRefreshFailure() {
	s.source.set([]models.WorkflowRule{s.storedRule("kept", models.TriggerManual)}, nil)

	_, err := s.cache.List(s.ctx)
	s.Require().NoError(err)

	s.source.set(nil, errors.New("connection refused"))
	s.cache.Invalidate()

	rules, err := s.cache.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rules, 1)
	s.Equal("kept", rules[0].Name)
}

func (s *CachedStoreSuite) TestFirstLoadFailurePropagates() {
	s.source.set(nil, errors.New("connection refused"))

	_, err := s.cache.List(s.ctx)
	s.Require().Error(err)
	s.Contains(err.Error(), "load rule snapshot")
}

func (s *CachedStoreSuite) TestSkipsInvalidStoredRules() {
	valid := s.storedRule("valid", models.TriggerManual)
	invalid := s.storedRule("invalid", models.TriggerManual)
	invalid.Actions = nil
	s.source.set([]models.WorkflowRule{valid, invalid}, nil)

	rules, err := s.cache.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rules, 1)
	s.Equal("valid", rules[0].Name)
}

func (s *CachedStoreSuite) TestListByTriggerFiltersSnapshot() {
	match := s.storedRule("match", models.TriggerInvoicePaid)
	disabled := s.storedRule("disabled", models.TriggerInvoicePaid)
	disabled.Enabled = false
	other := s.storedRule("other", models.TriggerManual)
	s.source.set([]models.WorkflowRule{match, disabled, other}, nil)

	rules, err := s.cache.ListByTrigger(s.ctx, models.TriggerInvoicePaid)
	s.Require().NoError(err)
	s.Require().Len(rules, 1)
	s.Equal("match", rules[0].Name)
	s.Equal(1, s.source.listCalls())
}

func (s *CachedStoreSuite) TestGetFromSnapshot() {
	rule := s.storedRule("target", models.TriggerManual)
	s.source.set([]models.WorkflowRule{rule}, nil)

	found, err := s.cache.Get(s.ctx, rule.ID)
	s.Require().NoError(err)
	s.Equal(rule.Name, found.Name)

	_, err = s.cache.Get(s.ctx, id.NewRuleID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
