// Package actions implements the standard handlers for the built-in action
// types. Seven of them translate resolved rule parameters into calls on the
// tracker port; webhook_call posts to rule-authored URLs. Hosts wire them
// into a HandlerRegistry at startup.
package actions

import (
	"context"
	"fmt"

	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation"
	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/models"
	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/ports"
	dErrors "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain-errors"
	"github.com/DRYTRIX/TimeTracker-sub005/pkg/requestcontext"
)

// Handlers bundles the tracker-backed action handlers around one TrackerAPI.
type Handlers struct {
	tracker ports.TrackerAPI
}

func NewHandlers(tracker ports.TrackerAPI) (*Handlers, error) {
	if tracker == nil {
		return nil, fmt.Errorf("tracker API is required")
	}
	return &Handlers{tracker: tracker}, nil
}

// Register binds the seven tracker-backed handlers to their action types.
func (h *Handlers) Register(registry *automation.HandlerRegistry) error {
	bindings := []struct {
		actionType models.ActionType
		handler    automation.ActionHandlerFunc
	}{
		{models.ActionLogTime, h.LogTime},
		{models.ActionSendNotification, h.SendNotification},
		{models.ActionUpdateStatus, h.UpdateStatus},
		{models.ActionCreateTask, h.CreateTask},
		{models.ActionSendEmail, h.SendEmail},
		{models.ActionAssignUser, h.AssignUser},
		{models.ActionCreateInvoiceReminder, h.CreateInvoiceReminder},
	}
	for _, b := range bindings {
		if err := registry.Register(b.actionType, b.handler); err != nil {
			return err
		}
	}
	return nil
}

// LogTime books hours on a task.
// Parameters: task_id (required), hours (required, > 0), user_id, note,
// logged_at (RFC3339).
func (h *Handlers) LogTime(ctx context.Context, params map[string]any) (automation.ActionOutcome, error) {
	taskID, err := requireString(params, "task_id")
	if err != nil {
		return automation.ActionOutcome{}, err
	}
	hours, err := requireNumber(params, "hours")
	if err != nil {
		return automation.ActionOutcome{}, err
	}
	if hours <= 0 {
		return automation.ActionOutcome{}, dErrors.New(dErrors.CodeInvalidInput, "parameter hours must be positive")
	}
	loggedAt, err := optionalTime(params, "logged_at")
	if err != nil {
		return automation.ActionOutcome{}, err
	}
	if loggedAt.IsZero() {
		loggedAt = requestcontext.Now(ctx)
	}

	entryID, err := h.tracker.CreateTimeEntry(ctx, ports.TimeEntry{
		TaskID:   taskID,
		UserID:   optionalString(params, "user_id"),
		Hours:    hours,
		Note:     optionalString(params, "note"),
		LoggedAt: loggedAt,
	})
	if err != nil {
		return automation.ActionOutcome{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to create time entry")
	}
	return automation.ActionOutcome{Detail: fmt.Sprintf("logged %vh on task %s (entry %s)", hours, taskID, entryID)}, nil
}

// SendNotification pushes a message to a user.
// Parameters: message (required), user_id, channel.
func (h *Handlers) SendNotification(ctx context.Context, params map[string]any) (automation.ActionOutcome, error) {
	message, err := requireString(params, "message")
	if err != nil {
		return automation.ActionOutcome{}, err
	}

	n := ports.Notification{
		UserID:  optionalString(params, "user_id"),
		Message: message,
		Channel: optionalString(params, "channel"),
	}
	if err := h.tracker.SendNotification(ctx, n); err != nil {
		return automation.ActionOutcome{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to send notification")
	}

	detail := "notification sent"
	if n.UserID != "" {
		detail += " to user " + n.UserID
	}
	return automation.ActionOutcome{Detail: detail}, nil
}

// UpdateStatus moves a task to a new status.
// Parameters: task_id (required), status (required).
func (h *Handlers) UpdateStatus(ctx context.Context, params map[string]any) (automation.ActionOutcome, error) {
	taskID, err := requireString(params, "task_id")
	if err != nil {
		return automation.ActionOutcome{}, err
	}
	status, err := requireString(params, "status")
	if err != nil {
		return automation.ActionOutcome{}, err
	}

	if err := h.tracker.UpdateTaskStatus(ctx, taskID, status); err != nil {
		return automation.ActionOutcome{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to update task status")
	}
	return automation.ActionOutcome{Detail: fmt.Sprintf("task %s moved to %s", taskID, status)}, nil
}

// CreateTask creates a new task.
// Parameters: project_id (required), name (required), description,
// assignee_id, due_at (RFC3339).
func (h *Handlers) CreateTask(ctx context.Context, params map[string]any) (automation.ActionOutcome, error) {
	projectID, err := requireString(params, "project_id")
	if err != nil {
		return automation.ActionOutcome{}, err
	}
	name, err := requireString(params, "name")
	if err != nil {
		return automation.ActionOutcome{}, err
	}
	dueAt, err := optionalTime(params, "due_at")
	if err != nil {
		return automation.ActionOutcome{}, err
	}

	taskID, err := h.tracker.CreateTask(ctx, ports.NewTask{
		ProjectID:   projectID,
		Name:        name,
		Description: optionalString(params, "description"),
		AssigneeID:  optionalString(params, "assignee_id"),
		DueAt:       dueAt,
	})
	if err != nil {
		return automation.ActionOutcome{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to create task")
	}
	return automation.ActionOutcome{Detail: fmt.Sprintf("task %s created in project %s", taskID, projectID)}, nil
}

// SendEmail sends an email through the tracker's relay.
// Parameters: to (required), subject (required), body.
func (h *Handlers) SendEmail(ctx context.Context, params map[string]any) (automation.ActionOutcome, error) {
	to, err := requireString(params, "to")
	if err != nil {
		return automation.ActionOutcome{}, err
	}
	subject, err := requireString(params, "subject")
	if err != nil {
		return automation.ActionOutcome{}, err
	}

	email := ports.Email{
		To:      to,
		Subject: subject,
		Body:    optionalString(params, "body"),
	}
	if err := h.tracker.SendEmail(ctx, email); err != nil {
		return automation.ActionOutcome{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to send email")
	}
	return automation.ActionOutcome{Detail: "email sent to " + to}, nil
}

// AssignUser assigns a user to a task.
// Parameters: task_id (required), user_id (required).
func (h *Handlers) AssignUser(ctx context.Context, params map[string]any) (automation.ActionOutcome, error) {
	taskID, err := requireString(params, "task_id")
	if err != nil {
		return automation.ActionOutcome{}, err
	}
	userID, err := requireString(params, "user_id")
	if err != nil {
		return automation.ActionOutcome{}, err
	}

	if err := h.tracker.AssignUser(ctx, taskID, userID); err != nil {
		return automation.ActionOutcome{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to assign user")
	}
	return automation.ActionOutcome{Detail: fmt.Sprintf("user %s assigned to task %s", userID, taskID)}, nil
}

// CreateInvoiceReminder schedules a payment reminder.
// Parameters: invoice_id (required), message.
func (h *Handlers) CreateInvoiceReminder(ctx context.Context, params map[string]any) (automation.ActionOutcome, error) {
	invoiceID, err := requireString(params, "invoice_id")
	if err != nil {
		return automation.ActionOutcome{}, err
	}

	message := optionalString(params, "message")
	if err := h.tracker.CreateInvoiceReminder(ctx, invoiceID, message); err != nil {
		return automation.ActionOutcome{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to create invoice reminder")
	}
	return automation.ActionOutcome{Detail: "reminder created for invoice " + invoiceID}, nil
}
