package rule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/models"
	id "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain"
	dErrors "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain-errors"
	"github.com/DRYTRIX/TimeTracker-sub005/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *MemoryStore
	ctx   context.Context
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewMemory()
	s.ctx = context.Background()
}

func (s *MemoryStoreSuite) newRule(name string, trigger models.TriggerType, priority int) models.WorkflowRule {
	now := time.Now()
	return models.WorkflowRule{
		ID:          id.NewRuleID(),
		Name:        name,
		TriggerType: trigger,
		Actions:     []models.ActionSpec{{Type: models.ActionSendNotification}},
		Priority:    priority,
		Enabled:     true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *MemoryStoreSuite) TestPutAndGet() {
	rule := s.newRule("notify", models.TriggerTaskStatusChange, 5)
	s.Require().NoError(s.store.Put(s.ctx, rule))

	found, err := s.store.Get(s.ctx, rule.ID)
	s.Require().NoError(err)
	s.Equal(rule.Name, found.Name)
	s.Equal(rule.Priority, found.Priority)
}

func (s *MemoryStoreSuite) TestGetUnknownIsNotFound() {
	_, err := s.store.Get(s.ctx, id.NewRuleID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MemoryStoreSuite) TestPutValidates() {
	rule := s.newRule("", models.TriggerTaskStatusChange, 5)
	err := s.store.Put(s.ctx, rule)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *MemoryStoreSuite) TestPutReplacesWholeRule() {
	rule := s.newRule("before", models.TriggerInvoicePaid, 1)
	s.Require().NoError(s.store.Put(s.ctx, rule))

	rule.Name = "after"
	rule.Priority = 9
	s.Require().NoError(s.store.Put(s.ctx, rule))

	found, err := s.store.Get(s.ctx, rule.ID)
	s.Require().NoError(err)
	s.Equal("after", found.Name)
	s.Equal(9, found.Priority)

	all, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *MemoryStoreSuite) TestListByTriggerFiltersAndOrders() {
	low := s.newRule("low", models.TriggerTaskStatusChange, 1)
	high := s.newRule("high", models.TriggerTaskStatusChange, 10)

	disabled := s.newRule("disabled", models.TriggerTaskStatusChange, 99)
	disabled.Enabled = false

	other := s.newRule("other-trigger", models.TriggerInvoicePaid, 50)

	for _, r := range []models.WorkflowRule{low, high, disabled, other} {
		s.Require().NoError(s.store.Put(s.ctx, r))
	}

	rules, err := s.store.ListByTrigger(s.ctx, models.TriggerTaskStatusChange)
	s.Require().NoError(err)
	s.Require().Len(rules, 2)
	s.Equal("high", rules[0].Name)
	s.Equal("low", rules[1].Name)
}

func (s *MemoryStoreSuite) TestListReturnsDisabledToo() {
	enabled := s.newRule("enabled", models.TriggerManual, 1)
	disabled := s.newRule("disabled", models.TriggerManual, 2)
	disabled.Enabled = false

	s.Require().NoError(s.store.Put(s.ctx, enabled))
	s.Require().NoError(s.store.Put(s.ctx, disabled))

	all, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *MemoryStoreSuite) TestDeleteIsIdempotent() {
	rule := s.newRule("to-delete", models.TriggerManual, 1)
	s.Require().NoError(s.store.Put(s.ctx, rule))

	s.Require().NoError(s.store.Delete(s.ctx, rule.ID))
	s.Require().NoError(s.store.Delete(s.ctx, rule.ID))

	_, err := s.store.Get(s.ctx, rule.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
