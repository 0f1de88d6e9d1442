package handler

import (
	"time"

	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/models"
)

// TriggerEventResponse acknowledges an accepted event. Acceptance only means
// the event is queued; outcomes surface through the execution queries.
type TriggerEventResponse struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	ReceivedAt time.Time `json:"received_at"`
}

// ActionResultResponse is one action outcome within an execution.
type ActionResultResponse struct {
	Type       string    `json:"type"`
	Success    bool      `json:"success"`
	Cancelled  bool      `json:"cancelled,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	Error      string    `json:"error,omitempty"`
	Warnings   []string  `json:"warnings,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
}

// ExecutionResponse is the HTTP shape of one execution record.
type ExecutionResponse struct {
	ID            string                 `json:"id"`
	RuleID        string                 `json:"rule_id"`
	RuleName      string                 `json:"rule_name"`
	EventID       string                 `json:"event_id"`
	TriggerType   string                 `json:"trigger_type"`
	Status        string                 `json:"status"`
	ActionResults []ActionResultResponse `json:"action_results"`
	StartedAt     time.Time              `json:"started_at"`
	FinishedAt    time.Time              `json:"finished_at"`
}

// FromExecution converts a domain execution record to its HTTP shape.
func FromExecution(exec models.WorkflowExecution) ExecutionResponse {
	results := make([]ActionResultResponse, 0, len(exec.ActionResults))
	for _, result := range exec.ActionResults {
		results = append(results, ActionResultResponse{
			Type:       string(result.Type),
			Success:    result.Success,
			Cancelled:  result.Cancelled,
			Detail:     result.Detail,
			Error:      result.Error,
			Warnings:   result.Warnings,
			StartedAt:  result.StartedAt,
			DurationMS: result.Duration.Milliseconds(),
		})
	}

	return ExecutionResponse{
		ID:            exec.ID.String(),
		RuleID:        exec.RuleID.String(),
		RuleName:      exec.RuleName,
		EventID:       exec.EventID.String(),
		TriggerType:   string(exec.TriggerType),
		Status:        string(exec.Status),
		ActionResults: results,
		StartedAt:     exec.StartedAt,
		FinishedAt:    exec.FinishedAt,
	}
}

// FromExecutions converts a page of execution records.
func FromExecutions(execs []models.WorkflowExecution) []ExecutionResponse {
	out := make([]ExecutionResponse, 0, len(execs))
	for _, exec := range execs {
		out = append(out, FromExecution(exec))
	}
	return out
}

// RuleResponse is the read-only HTTP shape of a rule. Authoring lives in
// the tracker core; this endpoint mirrors what the engine matches against.
type RuleResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	TriggerType string              `json:"trigger_type"`
	Condition   *models.Condition   `json:"condition,omitempty"`
	Actions     []models.ActionSpec `json:"actions"`
	Priority    int                 `json:"priority"`
	Enabled     bool                `json:"enabled"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// FromRule converts a domain rule to its HTTP shape.
func FromRule(rule models.WorkflowRule) RuleResponse {
	return RuleResponse{
		ID:          rule.ID.String(),
		Name:        rule.Name,
		TriggerType: string(rule.TriggerType),
		Condition:   rule.Condition,
		Actions:     rule.Actions,
		Priority:    rule.Priority,
		Enabled:     rule.Enabled,
		UpdatedAt:   rule.UpdatedAt,
	}
}

// FromRules converts the rule snapshot.
func FromRules(rules []models.WorkflowRule) []RuleResponse {
	out := make([]RuleResponse, 0, len(rules))
	for _, rule := range rules {
		out = append(out, FromRule(rule))
	}
	return out
}
