// Package execution stores workflow execution records. Records are
// append-only: the engine writes one per rule-event match and nothing ever
// updates or deletes them.
package execution

import (
	"context"
	"time"

	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/models"
	id "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Filter bounds List queries. Zero values mean "any"; time bounds follow
// started_at with From inclusive and To exclusive.
type Filter struct {
	RuleID id.RuleID
	Status models.ExecutionStatus
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

// normalized clamps paging values into the allowed range.
func (f Filter) normalized() Filter {
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// matches reports whether one record passes the filter, paging aside.
func (f Filter) matches(exec models.WorkflowExecution) bool {
	if !f.RuleID.IsNil() && exec.RuleID != f.RuleID {
		return false
	}
	if f.Status != "" && exec.Status != f.Status {
		return false
	}
	if !f.From.IsZero() && exec.StartedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !exec.StartedAt.Before(f.To) {
		return false
	}
	return true
}

// Store is the execution record surface shared by the engine (Append) and
// the query API (List, Get).
type Store interface {
	// Append persists one record. Appending the same execution id twice is
	// a no-op, so recorder retries stay safe.
	Append(ctx context.Context, exec models.WorkflowExecution) error

	// List returns records newest-first (started_at descending, id
	// ascending as tiebreak).
	List(ctx context.Context, filter Filter) ([]models.WorkflowExecution, error)

	// Get returns one record or sentinel.ErrNotFound.
	Get(ctx context.Context, execID id.ExecutionID) (models.WorkflowExecution, error)
}
