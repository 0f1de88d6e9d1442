package models

import (
	"strings"

	dErrors "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain-errors"
)

// TriggerType identifies the kind of occurrence an event describes.
// Rules subscribe to exactly one trigger type; matching is equality on
// this value before any condition is consulted.
type TriggerType string

const (
	TriggerTaskStatusChange       TriggerType = "task_status_change"
	TriggerTimeEntryCreated       TriggerType = "time_entry_created"
	TriggerInvoiceCreated         TriggerType = "invoice_created"
	TriggerInvoicePaid            TriggerType = "invoice_paid"
	TriggerBudgetThresholdReached TriggerType = "budget_threshold_reached"
	TriggerDeadlineApproaching    TriggerType = "deadline_approaching"
	TriggerRecurringCheck         TriggerType = "recurring_check"
	TriggerManual                 TriggerType = "manual_trigger"
)

// triggerTypes is the closed set of supported triggers. Unknown values are
// rejected at ingestion, never silently dropped mid-pipeline.
var triggerTypes = map[TriggerType]struct{}{
	TriggerTaskStatusChange:       {},
	TriggerTimeEntryCreated:       {},
	TriggerInvoiceCreated:         {},
	TriggerInvoicePaid:            {},
	TriggerBudgetThresholdReached: {},
	TriggerDeadlineApproaching:    {},
	TriggerRecurringCheck:         {},
	TriggerManual:                 {},
}

// ParseTriggerType validates a raw trigger string from a trust boundary
// (HTTP body, Kafka record, YAML seed).
func ParseTriggerType(value string) (TriggerType, error) {
	t := TriggerType(strings.TrimSpace(strings.ToLower(value)))
	if !t.Valid() {
		return "", dErrors.New(dErrors.CodeBadRequest, "unsupported trigger type: "+value)
	}
	return t, nil
}

// Valid reports whether the trigger type is one of the supported kinds.
func (t TriggerType) Valid() bool {
	_, ok := triggerTypes[t]
	return ok
}

func (t TriggerType) String() string { return string(t) }
