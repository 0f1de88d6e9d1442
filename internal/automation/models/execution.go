package models

import (
	"strings"
	"time"

	id "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain"
	dErrors "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain-errors"
)

// ExecutionStatus summarizes how a rule's actions fared for one event.
type ExecutionStatus string

const (
	// StatusSuccess: every action succeeded.
	StatusSuccess ExecutionStatus = "success"
	// StatusPartial: some actions succeeded, some failed.
	StatusPartial ExecutionStatus = "partial"
	// StatusFailed: every action failed.
	StatusFailed ExecutionStatus = "failed"
	// StatusCancelled: the event deadline expired before all actions ran.
	StatusCancelled ExecutionStatus = "cancelled"
)

var executionStatuses = map[ExecutionStatus]struct{}{
	StatusSuccess: {}, StatusPartial: {}, StatusFailed: {}, StatusCancelled: {},
}

// ParseExecutionStatus validates a raw status string from a query parameter.
func ParseExecutionStatus(value string) (ExecutionStatus, error) {
	s := ExecutionStatus(strings.TrimSpace(strings.ToLower(value)))
	if _, ok := executionStatuses[s]; !ok {
		return "", dErrors.New(dErrors.CodeBadRequest, "unsupported execution status: "+value)
	}
	return s, nil
}

// ActionResult records the outcome of one action within an execution.
// Results keep the rule's action order.
type ActionResult struct {
	Type      ActionType
	Success   bool
	Cancelled bool
	Detail    string
	Error     string
	Warnings  []string
	StartedAt time.Time
	Duration  time.Duration
}

// WorkflowExecution is the append-only record of one rule matching one
// event. One record per rule-event pair, written after the rule's actions
// finish, regardless of how many actions failed.
type WorkflowExecution struct {
	ID            id.ExecutionID
	RuleID        id.RuleID
	RuleName      string
	EventID       id.EventID
	TriggerType   TriggerType
	Status        ExecutionStatus
	ActionResults []ActionResult
	StartedAt     time.Time
	FinishedAt    time.Time
}

// DeriveStatus computes the execution status from action results:
// any cancelled action marks the whole execution cancelled; otherwise
// all-success is success, none-success is failed, and a mix is partial.
func DeriveStatus(results []ActionResult) ExecutionStatus {
	if len(results) == 0 {
		return StatusFailed
	}

	succeeded := 0
	for _, result := range results {
		if result.Cancelled {
			return StatusCancelled
		}
		if result.Success {
			succeeded++
		}
	}

	switch succeeded {
	case len(results):
		return StatusSuccess
	case 0:
		return StatusFailed
	default:
		return StatusPartial
	}
}
