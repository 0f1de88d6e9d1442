//go:build integration

package execution_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/models"
	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/store/execution"
	id "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain"
	"github.com/DRYTRIX/TimeTracker-sub005/pkg/platform/sentinel"
	"github.com/DRYTRIX/TimeTracker-sub005/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *execution.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = execution.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx, "workflow_executions")
	s.Require().NoError(err)
}

func makeExecution(ruleID id.RuleID, status models.ExecutionStatus, startedAt time.Time) models.WorkflowExecution {
	startedAt = startedAt.UTC().Truncate(time.Microsecond)
	return models.WorkflowExecution{
		ID:          id.NewExecutionID(),
		RuleID:      ruleID,
		RuleName:    "record me",
		EventID:     id.NewEventID(),
		TriggerType: models.TriggerInvoicePaid,
		Status:      status,
		ActionResults: []models.ActionResult{
			{
				Type:      models.ActionSendNotification,
				Success:   true,
				Detail:    "notified user-7",
				Warnings:  []string{"unresolved placeholder: client.nickname"},
				StartedAt: startedAt,
				Duration:  120 * time.Millisecond,
			},
			{
				Type:      models.ActionWebhookCall,
				Success:   false,
				Error:     "action timed out after 10s",
				StartedAt: startedAt.Add(130 * time.Millisecond),
				Duration:  10 * time.Second,
			},
		},
		StartedAt:  startedAt,
		FinishedAt: startedAt.Add(11 * time.Second),
	}
}

func (s *PostgresStoreSuite) TestAppendAndGet() {
	exec := makeExecution(id.NewRuleID(), models.StatusPartial, time.Now())
	s.Require().NoError(s.store.Append(context.Background(), exec))

	found, err := s.store.Get(context.Background(), exec.ID)
	s.Require().NoError(err)
	s.Equal(exec.RuleID, found.RuleID)
	s.Equal(exec.RuleName, found.RuleName)
	s.Equal(exec.EventID, found.EventID)
	s.Equal(models.TriggerInvoicePaid, found.TriggerType)
	s.Equal(models.StatusPartial, found.Status)
	s.WithinDuration(exec.StartedAt, found.StartedAt, time.Millisecond)
	s.WithinDuration(exec.FinishedAt, found.FinishedAt, time.Millisecond)

	s.Require().Len(found.ActionResults, 2)
	first := found.ActionResults[0]
	s.Equal(models.ActionSendNotification, first.Type)
	s.True(first.Success)
	s.Equal("notified user-7", first.Detail)
	s.Equal([]string{"unresolved placeholder: client.nickname"}, first.Warnings)
	s.Equal(120*time.Millisecond, first.Duration)

	second := found.ActionResults[1]
	s.Equal(models.ActionWebhookCall, second.Type)
	s.False(second.Success)
	s.Equal("action timed out after 10s", second.Error)
	s.Equal(10*time.Second, second.Duration)
}

func (s *PostgresStoreSuite) TestGetUnknownIsNotFound() {
	_, err := s.store.Get(context.Background(), id.NewExecutionID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestDuplicateAppendIsNoOp() {
	exec := makeExecution(id.NewRuleID(), models.StatusSuccess, time.Now())
	s.Require().NoError(s.store.Append(context.Background(), exec))

	replay := exec
	replay.RuleName = "changed"
	s.Require().NoError(s.store.Append(context.Background(), replay))

	found, err := s.store.Get(context.Background(), exec.ID)
	s.Require().NoError(err)
	s.Equal("record me", found.RuleName, "first write wins")

	all, err := s.store.List(context.Background(), execution.Filter{})
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *PostgresStoreSuite) TestListNewestFirst() {
	ruleID := id.NewRuleID()
	base := time.Now().Add(-time.Hour)
	var ids []id.ExecutionID
	for i := 0; i < 3; i++ {
		exec := makeExecution(ruleID, models.StatusSuccess, base.Add(time.Duration(i)*time.Minute))
		ids = append(ids, exec.ID)
		s.Require().NoError(s.store.Append(context.Background(), exec))
	}

	execs, err := s.store.List(context.Background(), execution.Filter{})
	s.Require().NoError(err)
	s.Require().Len(execs, 3)
	s.Equal(ids[2], execs[0].ID)
	s.Equal(ids[1], execs[1].ID)
	s.Equal(ids[0], execs[2].ID)
}

func (s *PostgresStoreSuite) TestListFiltersByRuleAndStatus() {
	target := id.NewRuleID()
	other := id.NewRuleID()
	now := time.Now()

	s.Require().NoError(s.store.Append(context.Background(), makeExecution(target, models.StatusSuccess, now)))
	s.Require().NoError(s.store.Append(context.Background(), makeExecution(target, models.StatusFailed, now.Add(time.Second))))
	s.Require().NoError(s.store.Append(context.Background(), makeExecution(other, models.StatusFailed, now.Add(2*time.Second))))

	byRule, err := s.store.List(context.Background(), execution.Filter{RuleID: target})
	s.Require().NoError(err)
	s.Len(byRule, 2)

	failedForRule, err := s.store.List(context.Background(), execution.Filter{RuleID: target, Status: models.StatusFailed})
	s.Require().NoError(err)
	s.Require().Len(failedForRule, 1)
	s.Equal(models.StatusFailed, failedForRule[0].Status)
}

func (s *PostgresStoreSuite) TestListFiltersByTimeWindow() {
	ruleID := id.NewRuleID()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		s.Require().NoError(s.store.Append(context.Background(), makeExecution(ruleID, models.StatusSuccess, base.Add(time.Duration(i)*time.Hour))))
	}

	execs, err := s.store.List(context.Background(), execution.Filter{
		From: base.Add(time.Hour),
		To:   base.Add(3 * time.Hour),
	})
	s.Require().NoError(err)
	s.Len(execs, 2, "from is inclusive, to is exclusive")
}

func (s *PostgresStoreSuite) TestListPaging() {
	ruleID := id.NewRuleID()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		s.Require().NoError(s.store.Append(context.Background(), makeExecution(ruleID, models.StatusSuccess, base.Add(time.Duration(i)*time.Minute))))
	}

	page, err := s.store.List(context.Background(), execution.Filter{Limit: 2, Offset: 1})
	s.Require().NoError(err)
	s.Len(page, 2)

	tail, err := s.store.List(context.Background(), execution.Filter{Limit: 2, Offset: 4})
	s.Require().NoError(err)
	s.Len(tail, 1)
}
