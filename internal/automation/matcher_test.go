package automation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/models"
	id "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain"
	dErrors "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain-errors"
)

type stubRuleSource struct {
	rules []models.WorkflowRule
	err   error
}

func (s *stubRuleSource) ListByTrigger(ctx context.Context, trigger models.TriggerType) ([]models.WorkflowRule, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.rules, nil
}

func matcherRule(t *testing.T, rawID, name string, priority int) models.WorkflowRule {
	t.Helper()
	ruleID, err := id.ParseRuleID(rawID)
	require.NoError(t, err)
	return models.WorkflowRule{
		ID:          ruleID,
		Name:        name,
		TriggerType: models.TriggerTaskStatusChange,
		Actions:     []models.ActionSpec{{Type: models.ActionSendNotification}},
		Priority:    priority,
		Enabled:     true,
	}
}

func matcherEvent(t *testing.T) models.Event {
	t.Helper()
	event, err := models.NewEvent(
		models.TriggerTaskStatusChange,
		map[string]any{"new_status": "done"},
		models.SourceAPI,
		time.Now(),
		time.Now(),
	)
	require.NoError(t, err)
	return event
}

func TestMatchOrdersByPriorityThenID(t *testing.T) {
	low := matcherRule(t, "99999999-9999-4999-8999-999999999999", "low", 1)
	highSecond := matcherRule(t, "bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb", "high-b", 10)
	highFirst := matcherRule(t, "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa", "high-a", 10)
	mid := matcherRule(t, "11111111-1111-4111-8111-111111111111", "mid", 5)

	source := &stubRuleSource{rules: []models.WorkflowRule{low, highSecond, highFirst, mid}}
	matcher, err := NewMatcher(source)
	require.NoError(t, err)

	matched, err := matcher.Match(context.Background(), matcherEvent(t))
	require.NoError(t, err)
	require.Len(t, matched, 4)

	names := make([]string, 0, len(matched))
	for _, rule := range matched {
		names = append(names, rule.Name)
	}
	// Priority descending; equal priorities tie-break on rule id ascending.
	assert.Equal(t, []string{"high-a", "high-b", "mid", "low"}, names)
}

func TestMatchFiltersDisabledAndNonMatching(t *testing.T) {
	enabled := matcherRule(t, "11111111-1111-4111-8111-111111111111", "enabled", 5)

	disabled := matcherRule(t, "22222222-2222-4222-8222-222222222222", "disabled", 50)
	disabled.Enabled = false

	conditioned := matcherRule(t, "33333333-3333-4333-8333-333333333333", "wrong-status", 50)
	conditioned.Condition = &models.Condition{Field: "new_status", Op: models.OpEq, Value: "archived"}

	source := &stubRuleSource{rules: []models.WorkflowRule{enabled, disabled, conditioned}}
	matcher, err := NewMatcher(source)
	require.NoError(t, err)

	matched, err := matcher.Match(context.Background(), matcherEvent(t))
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "enabled", matched[0].Name)
}

func TestMatchConditionOnMissingFieldIsNonMatch(t *testing.T) {
	rule := matcherRule(t, "11111111-1111-4111-8111-111111111111", "needs-field", 5)
	rule.Condition = &models.Condition{Field: "no.such.field", Op: models.OpEq, Value: "x"}

	matcher, err := NewMatcher(&stubRuleSource{rules: []models.WorkflowRule{rule}})
	require.NoError(t, err)

	matched, err := matcher.Match(context.Background(), matcherEvent(t))
	require.NoError(t, err)
	assert.Empty(t, matched)
}

func TestMatchWrapsSourceFailure(t *testing.T) {
	matcher, err := NewMatcher(&stubRuleSource{err: errors.New("connection refused")})
	require.NoError(t, err)

	_, err = matcher.Match(context.Background(), matcherEvent(t))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func TestNewMatcherRequiresSource(t *testing.T) {
	_, err := NewMatcher(nil)
	require.Error(t, err)
}
