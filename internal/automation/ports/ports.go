// Package ports defines shared interfaces for the automation module.
// Interfaces are placed here when consumed by multiple packages (action
// handlers, scheduler sources, HTTP adapters) to avoid duplication.
package ports

import (
	"context"
	"time"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

// TimeEntry is a request to log tracked time against a task.
type TimeEntry struct {
	TaskID   string
	UserID   string
	Hours    float64
	Note     string
	LoggedAt time.Time
}

// Notification is a request to push a message to a user.
type Notification struct {
	UserID  string
	Message string
	// Channel selects the delivery mechanism ("inapp", "slack", ...).
	// Empty means the tracker's default channel.
	Channel string
}

// NewTask is a request to create a task in the tracker.
type NewTask struct {
	ProjectID   string
	Name        string
	Description string
	AssigneeID  string
	DueAt       time.Time
}

// Email is an outbound email request.
type Email struct {
	To      string
	Subject string
	Body    string
}

// TrackerAPI is the outbound port to the time-tracker backend. Action
// handlers call it to apply side effects; implementations own their own
// concurrency control, the engine never coordinates writes across actions.
type TrackerAPI interface {
	// CreateTimeEntry logs time and returns the new entry id.
	CreateTimeEntry(ctx context.Context, entry TimeEntry) (string, error)

	// SendNotification delivers an in-app or channel notification.
	SendNotification(ctx context.Context, n Notification) error

	// UpdateTaskStatus moves a task to the given status.
	UpdateTaskStatus(ctx context.Context, taskID, status string) error

	// CreateTask creates a task and returns its id.
	CreateTask(ctx context.Context, task NewTask) (string, error)

	// SendEmail sends an email through the tracker's mail relay.
	SendEmail(ctx context.Context, email Email) error

	// AssignUser assigns a user to a task.
	AssignUser(ctx context.Context, taskID, userID string) error

	// CreateInvoiceReminder schedules a payment reminder for an invoice.
	CreateInvoiceReminder(ctx context.Context, invoiceID, message string) error
}

// DeadlineItem is a task whose due date falls inside the scheduler's horizon.
type DeadlineItem struct {
	TaskID    string
	TaskName  string
	ProjectID string
	DueAt     time.Time
}

// BudgetItem is a project whose tracked hours crossed a budget threshold.
type BudgetItem struct {
	ProjectID   string
	ProjectName string
	BudgetHours float64
	UsedHours   float64
	// Threshold is the crossed fraction of the budget, e.g. 0.8.
	Threshold float64
}

// RecurringItem is a recurring task template that is due to run.
type RecurringItem struct {
	ScheduleID string
	ProjectID  string
	TaskName   string
	DueAt      time.Time
}

// SchedulerFeed exposes the tracker-side queries the scheduler polls to
// synthesize time-derived events. Implementations must be safe for
// concurrent use.
type SchedulerFeed interface {
	// ApproachingDeadlines lists tasks due within the given horizon.
	ApproachingDeadlines(ctx context.Context, within time.Duration) ([]DeadlineItem, error)

	// ExceededBudgets lists projects that crossed a budget threshold.
	ExceededBudgets(ctx context.Context) ([]BudgetItem, error)

	// DueRecurring lists recurring schedules due at or before now.
	DueRecurring(ctx context.Context, now time.Time) ([]RecurringItem, error)
}
