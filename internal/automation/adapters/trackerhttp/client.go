// Package trackerhttp is the REST adapter to the time-tracker core API.
// It implements both outbound ports of the automation module: TrackerAPI
// for action side effects and SchedulerFeed for the scheduler's queries.
// The engine stays independent of the tracker's wire format.
package trackerhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/ports"
	dErrors "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain-errors"
)

const defaultTimeout = 10 * time.Second

// Client talks to the tracker over HTTP with a bearer token. Every call is
// bounded by its own timeout on top of whatever deadline the caller carries.
type Client struct {
	baseURL    string
	token      string
	timeout    time.Duration
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates a tracker client for the given base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("tracker base URL is required")
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    defaultTimeout,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Wire types. The tracker API uses snake_case JSON; timestamps are RFC 3339.

type timeEntryRequest struct {
	TaskID   string  `json:"task_id"`
	UserID   string  `json:"user_id,omitempty"`
	Hours    float64 `json:"hours"`
	Note     string  `json:"note,omitempty"`
	LoggedAt string  `json:"logged_at,omitempty"`
}

type notificationRequest struct {
	UserID  string `json:"user_id,omitempty"`
	Message string `json:"message"`
	Channel string `json:"channel,omitempty"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type createTaskRequest struct {
	ProjectID   string `json:"project_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	AssigneeID  string `json:"assignee_id,omitempty"`
	DueAt       string `json:"due_at,omitempty"`
}

type emailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body,omitempty"`
}

type assigneeRequest struct {
	UserID string `json:"user_id"`
}

type reminderRequest struct {
	Message string `json:"message,omitempty"`
}

type idResponse struct {
	ID string `json:"id"`
}

type deadlineItem struct {
	TaskID    string    `json:"task_id"`
	TaskName  string    `json:"task_name"`
	ProjectID string    `json:"project_id"`
	DueAt     time.Time `json:"due_at"`
}

type budgetItem struct {
	ProjectID   string  `json:"project_id"`
	ProjectName string  `json:"project_name"`
	BudgetHours float64 `json:"budget_hours"`
	UsedHours   float64 `json:"used_hours"`
	Threshold   float64 `json:"threshold"`
}

type recurringItem struct {
	ScheduleID string    `json:"schedule_id"`
	ProjectID  string    `json:"project_id"`
	TaskName   string    `json:"task_name"`
	DueAt      time.Time `json:"due_at"`
}

// CreateTimeEntry logs time against a task and returns the entry id.
func (c *Client) CreateTimeEntry(ctx context.Context, entry ports.TimeEntry) (string, error) {
	body := timeEntryRequest{
		TaskID: entry.TaskID,
		UserID: entry.UserID,
		Hours:  entry.Hours,
		Note:   entry.Note,
	}
	if !entry.LoggedAt.IsZero() {
		body.LoggedAt = entry.LoggedAt.UTC().Format(time.RFC3339)
	}

	var resp idResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/time-entries", body, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// SendNotification pushes a message through the tracker's notification hub.
func (c *Client) SendNotification(ctx context.Context, n ports.Notification) error {
	return c.do(ctx, http.MethodPost, "/api/v1/notifications", notificationRequest{
		UserID:  n.UserID,
		Message: n.Message,
		Channel: n.Channel,
	}, nil)
}

// UpdateTaskStatus moves a task to the given status.
func (c *Client) UpdateTaskStatus(ctx context.Context, taskID, status string) error {
	path := "/api/v1/tasks/" + url.PathEscape(taskID) + "/status"
	return c.do(ctx, http.MethodPut, path, statusRequest{Status: status}, nil)
}

// CreateTask creates a task and returns its id.
func (c *Client) CreateTask(ctx context.Context, task ports.NewTask) (string, error) {
	body := createTaskRequest{
		ProjectID:   task.ProjectID,
		Name:        task.Name,
		Description: task.Description,
		AssigneeID:  task.AssigneeID,
	}
	if !task.DueAt.IsZero() {
		body.DueAt = task.DueAt.UTC().Format(time.RFC3339)
	}

	var resp idResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/tasks", body, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// SendEmail sends an email through the tracker's mail relay.
func (c *Client) SendEmail(ctx context.Context, email ports.Email) error {
	return c.do(ctx, http.MethodPost, "/api/v1/emails", emailRequest{
		To:      email.To,
		Subject: email.Subject,
		Body:    email.Body,
	}, nil)
}

// AssignUser assigns a user to a task.
func (c *Client) AssignUser(ctx context.Context, taskID, userID string) error {
	path := "/api/v1/tasks/" + url.PathEscape(taskID) + "/assignee"
	return c.do(ctx, http.MethodPut, path, assigneeRequest{UserID: userID}, nil)
}

// CreateInvoiceReminder schedules a payment reminder for an invoice.
func (c *Client) CreateInvoiceReminder(ctx context.Context, invoiceID, message string) error {
	path := "/api/v1/invoices/" + url.PathEscape(invoiceID) + "/reminders"
	return c.do(ctx, http.MethodPost, path, reminderRequest{Message: message}, nil)
}

// ApproachingDeadlines lists tasks due within the given horizon.
func (c *Client) ApproachingDeadlines(ctx context.Context, within time.Duration) ([]ports.DeadlineItem, error) {
	path := fmt.Sprintf("/api/v1/reports/approaching-deadlines?within_minutes=%d", int64(within.Minutes()))

	var wire []deadlineItem
	if err := c.do(ctx, http.MethodGet, path, nil, &wire); err != nil {
		return nil, err
	}

	items := make([]ports.DeadlineItem, 0, len(wire))
	for _, it := range wire {
		items = append(items, ports.DeadlineItem{
			TaskID:    it.TaskID,
			TaskName:  it.TaskName,
			ProjectID: it.ProjectID,
			DueAt:     it.DueAt,
		})
	}
	return items, nil
}

// ExceededBudgets lists projects that crossed a budget threshold.
func (c *Client) ExceededBudgets(ctx context.Context) ([]ports.BudgetItem, error) {
	var wire []budgetItem
	if err := c.do(ctx, http.MethodGet, "/api/v1/reports/exceeded-budgets", nil, &wire); err != nil {
		return nil, err
	}

	items := make([]ports.BudgetItem, 0, len(wire))
	for _, it := range wire {
		items = append(items, ports.BudgetItem{
			ProjectID:   it.ProjectID,
			ProjectName: it.ProjectName,
			BudgetHours: it.BudgetHours,
			UsedHours:   it.UsedHours,
			Threshold:   it.Threshold,
		})
	}
	return items, nil
}

// DueRecurring lists recurring schedules due at or before now.
func (c *Client) DueRecurring(ctx context.Context, now time.Time) ([]ports.RecurringItem, error) {
	path := "/api/v1/reports/due-recurring?now=" + url.QueryEscape(now.UTC().Format(time.RFC3339))

	var wire []recurringItem
	if err := c.do(ctx, http.MethodGet, path, nil, &wire); err != nil {
		return nil, err
	}

	items := make([]ports.RecurringItem, 0, len(wire))
	for _, it := range wire {
		items = append(items, ports.RecurringItem{
			ScheduleID: it.ScheduleID,
			ProjectID:  it.ProjectID,
			TaskName:   it.TaskName,
			DueAt:      it.DueAt,
		})
	}
	return items, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "encode tracker request")
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "build tracker request")
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return dErrors.Wrap(err, dErrors.CodeTimeout, "tracker request timed out")
		}
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "tracker request failed")
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return statusError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "decode tracker response")
		}
	}
	return nil
}

// statusError maps tracker HTTP errors onto domain error codes so callers
// can distinguish retryable outages from caller mistakes.
func statusError(resp *http.Response) error {
	msg := fmt.Sprintf("tracker returned status %d", resp.StatusCode)

	var wire struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&wire); err == nil && wire.Error != "" {
		msg += ": " + wire.Error
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return dErrors.New(dErrors.CodeInvalidInput, msg)
	case resp.StatusCode == http.StatusUnauthorized:
		return dErrors.New(dErrors.CodeUnauthorized, msg)
	case resp.StatusCode == http.StatusForbidden:
		return dErrors.New(dErrors.CodeForbidden, msg)
	case resp.StatusCode == http.StatusNotFound:
		return dErrors.New(dErrors.CodeNotFound, msg)
	case resp.StatusCode == http.StatusConflict:
		return dErrors.New(dErrors.CodeConflict, msg)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return dErrors.New(dErrors.CodeUnavailable, msg)
	default:
		return dErrors.New(dErrors.CodeInternal, msg)
	}
}

var (
	_ ports.TrackerAPI    = (*Client)(nil)
	_ ports.SchedulerFeed = (*Client)(nil)
)
