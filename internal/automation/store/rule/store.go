// Package rule stores workflow rule definitions. The engine consumes rules
// read-only; creation and editing belong to the management surface that
// writes the same tables.
package rule

import (
	"context"
	"sort"

	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/models"
	id "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain"
)

// Store is the read surface the engine and the query API share. Reads are
// snapshot-consistent: a concurrent rule update is visible either fully or
// not at all.
type Store interface {
	// ListByTrigger returns enabled rules for one trigger type, ordered by
	// priority descending then rule id ascending.
	ListByTrigger(ctx context.Context, trigger models.TriggerType) ([]models.WorkflowRule, error)

	// List returns all rules, enabled or not, in the same order.
	List(ctx context.Context) ([]models.WorkflowRule, error)

	// Get returns one rule or sentinel.ErrNotFound.
	Get(ctx context.Context, ruleID id.RuleID) (models.WorkflowRule, error)
}

// sortRules applies the matching order: priority descending, rule id
// ascending as the tiebreak.
func sortRules(rules []models.WorkflowRule) {
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Priority != rules[j].Priority {
			return rules[i].Priority > rules[j].Priority
		}
		return rules[i].ID.String() < rules[j].ID.String()
	})
}
