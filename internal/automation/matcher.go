package automation

import (
	"context"
	"fmt"
	"sort"

	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/models"
	dErrors "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain-errors"
)

// RuleSource supplies enabled rules for a trigger type. Implementations must
// serve snapshot-consistent reads: a concurrent rule update is visible either
// fully or not at all, never as a half-written record.
type RuleSource interface {
	ListByTrigger(ctx context.Context, trigger models.TriggerType) ([]models.WorkflowRule, error)
}

// Matcher selects and orders the rules an event fires. The ordering contract
// lives here so every store implementation stays a plain filter.
type Matcher struct {
	source RuleSource
}

func NewMatcher(source RuleSource) (*Matcher, error) {
	if source == nil {
		return nil, fmt.Errorf("rule source is required")
	}
	return &Matcher{source: source}, nil
}

// Match returns the rules the event fires, ordered by priority descending
// with rule id ascending as the tiebreak, so dispatch order is deterministic
// across replays. Condition evaluation is total: a payload that does not
// satisfy a condition is a non-match, never an error.
func (m *Matcher) Match(ctx context.Context, event models.Event) ([]models.WorkflowRule, error) {
	rules, err := m.source.ListByTrigger(ctx, event.Type)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list rules for trigger")
	}

	matched := make([]models.WorkflowRule, 0, len(rules))
	for _, rule := range rules {
		if rule.Matches(event) {
			matched = append(matched, rule)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Priority != matched[j].Priority {
			return matched[i].Priority > matched[j].Priority
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})
	return matched, nil
}
