package models

import (
	"strings"

	dErrors "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain-errors"
)

// ActionType identifies what a rule action does when its rule matches.
type ActionType string

const (
	ActionLogTime               ActionType = "log_time"
	ActionSendNotification      ActionType = "send_notification"
	ActionUpdateStatus          ActionType = "update_status"
	ActionCreateTask            ActionType = "create_task"
	ActionSendEmail             ActionType = "send_email"
	ActionAssignUser            ActionType = "assign_user"
	ActionCreateInvoiceReminder ActionType = "create_invoice_reminder"
	ActionWebhookCall           ActionType = "webhook_call"
)

var actionTypes = map[ActionType]struct{}{
	ActionLogTime:               {},
	ActionSendNotification:      {},
	ActionUpdateStatus:          {},
	ActionCreateTask:            {},
	ActionSendEmail:             {},
	ActionAssignUser:            {},
	ActionCreateInvoiceReminder: {},
	ActionWebhookCall:           {},
}

// ParseActionType validates a raw action string from a trust boundary.
func ParseActionType(value string) (ActionType, error) {
	a := ActionType(strings.TrimSpace(strings.ToLower(value)))
	if !a.Valid() {
		return "", dErrors.New(dErrors.CodeBadRequest, "unsupported action type: "+value)
	}
	return a, nil
}

// Valid reports whether the action type is one of the supported kinds.
func (a ActionType) Valid() bool {
	_, ok := actionTypes[a]
	return ok
}

func (a ActionType) String() string { return string(a) }

// ActionSpec pairs an action type with its rule-authored parameters.
// String parameter values may contain {{path}} placeholders which are
// resolved against the event payload before dispatch.
type ActionSpec struct {
	Type       ActionType     `json:"type"`
	Parameters map[string]any `json:"parameters,omitempty"`
}
