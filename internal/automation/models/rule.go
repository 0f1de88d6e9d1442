package models

import (
	"strings"
	"time"

	id "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain"
	dErrors "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain-errors"
)

// maxRuleNameLength bounds rule names the same way the rest of the suite
// bounds display names.
const maxRuleNameLength = 128

// WorkflowRule is the aggregate root for an automation rule.
//
// Invariants:
//   - Name is non-empty and at most 128 characters
//   - TriggerType is one of the eight supported triggers
//   - Actions is non-empty and every action type is supported
//   - Condition, when present, is structurally valid
//   - Disabled rules never match events
//
// # Matching Order
//
// When several rules match one event they execute sequentially ordered by
// Priority descending, then ID ascending. The tie-break makes replays and
// tests deterministic: two runs over the same rule set and event always
// produce executions in the same order.
//
// # Isolation
//
// A rule's execution never depends on another rule's outcome. A failing
// action fails its own ActionResult; a failing rule still lets later rules
// run against the same event. There is no cross-rule or cross-action
// rollback.
type WorkflowRule struct {
	ID          id.RuleID
	WorkspaceID id.WorkspaceID
	Name        string
	TriggerType TriggerType
	Condition   *Condition
	Actions     []ActionSpec
	Priority    int
	Enabled     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate enforces the structural invariants. Stores call it on every
// write; the seed loader calls it before handing rules to the store.
func (r *WorkflowRule) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "rule is required")
	}
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "rule name is required")
	}
	if len(name) > maxRuleNameLength {
		return dErrors.New(dErrors.CodeInvalidInput, "rule name exceeds 128 characters")
	}
	if !r.TriggerType.Valid() {
		return dErrors.New(dErrors.CodeInvalidInput, "unsupported trigger type: "+string(r.TriggerType))
	}
	if len(r.Actions) == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "rule requires at least one action")
	}
	for _, action := range r.Actions {
		if !action.Type.Valid() {
			return dErrors.New(dErrors.CodeInvalidInput, "unsupported action type: "+string(action.Type))
		}
	}
	if err := r.Condition.Validate(); err != nil {
		return err
	}
	return nil
}

// Matches reports whether the rule applies to the event: the rule is
// enabled, trigger types are equal, and the condition holds against the
// payload. A nil condition always holds.
func (r *WorkflowRule) Matches(event Event) bool {
	if r == nil {
		return false
	}
	if !r.Enabled {
		return false
	}
	if r.TriggerType != event.Type {
		return false
	}
	return r.Condition.Evaluate(event.Payload)
}
