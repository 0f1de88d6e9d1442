package execution

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/models"
	id "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain"
	"github.com/DRYTRIX/TimeTracker-sub005/pkg/platform/sentinel"
)

// PostgresStore persists execution records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// actionResultRecord is the JSON shape stored in the action_results column.
type actionResultRecord struct {
	Type       string    `json:"type"`
	Success    bool      `json:"success"`
	Cancelled  bool      `json:"cancelled,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	Error      string    `json:"error,omitempty"`
	Warnings   []string  `json:"warnings,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
}

func toResultRecords(results []models.ActionResult) []actionResultRecord {
	records := make([]actionResultRecord, 0, len(results))
	for _, r := range results {
		records = append(records, actionResultRecord{
			Type:       string(r.Type),
			Success:    r.Success,
			Cancelled:  r.Cancelled,
			Detail:     r.Detail,
			Error:      r.Error,
			Warnings:   r.Warnings,
			StartedAt:  r.StartedAt,
			DurationMS: r.Duration.Milliseconds(),
		})
	}
	return records
}

func fromResultRecords(records []actionResultRecord) []models.ActionResult {
	results := make([]models.ActionResult, 0, len(records))
	for _, r := range records {
		results = append(results, models.ActionResult{
			Type:      models.ActionType(r.Type),
			Success:   r.Success,
			Cancelled: r.Cancelled,
			Detail:    r.Detail,
			Error:     r.Error,
			Warnings:  r.Warnings,
			StartedAt: r.StartedAt,
			Duration:  time.Duration(r.DurationMS) * time.Millisecond,
		})
	}
	return results
}

func (s *PostgresStore) Append(ctx context.Context, exec models.WorkflowExecution) error {
	resultsBytes, err := json.Marshal(toResultRecords(exec.ActionResults))
	if err != nil {
		return fmt.Errorf("marshal action results: %w", err)
	}

	query := `
		INSERT INTO workflow_executions (
			id, rule_id, rule_name, event_id, trigger_type,
			status, action_results, started_at, finished_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`
	_, err = s.db.ExecContext(ctx, query,
		uuid.UUID(exec.ID),
		uuid.UUID(exec.RuleID),
		exec.RuleName,
		uuid.UUID(exec.EventID),
		string(exec.TriggerType),
		string(exec.Status),
		resultsBytes,
		exec.StartedAt,
		exec.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert execution record: %w", err)
	}
	return nil
}

const executionColumns = `id, rule_id, rule_name, event_id, trigger_type, status, action_results, started_at, finished_at`

func (s *PostgresStore) List(ctx context.Context, filter Filter) ([]models.WorkflowExecution, error) {
	filter = filter.normalized()

	var (
		where []string
		args  []any
	)
	if !filter.RuleID.IsNil() {
		args = append(args, uuid.UUID(filter.RuleID))
		where = append(where, fmt.Sprintf("rule_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		where = append(where, fmt.Sprintf("started_at >= $%d", len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		where = append(where, fmt.Sprintf("started_at < $%d", len(args)))
	}

	query := `SELECT ` + executionColumns + ` FROM workflow_executions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY started_at DESC, id ASC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query execution records: %w", err)
	}
	defer rows.Close()
	return scanExecutions(rows)
}

func (s *PostgresStore) Get(ctx context.Context, execID id.ExecutionID) (models.WorkflowExecution, error) {
	query := `
		SELECT ` + executionColumns + `
		FROM workflow_executions
		WHERE id = $1
	`
	row := s.db.QueryRowContext(ctx, query, uuid.UUID(execID))
	exec, err := scanExecution(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.WorkflowExecution{}, sentinel.ErrNotFound
		}
		return models.WorkflowExecution{}, fmt.Errorf("get execution record: %w", err)
	}
	return exec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExecution(row rowScanner) (models.WorkflowExecution, error) {
	var (
		execID  uuid.UUID
		ruleID  uuid.UUID
		eventID uuid.UUID
		exec    models.WorkflowExecution
		trigger string
		status  string
		results []byte
	)
	err := row.Scan(&execID, &ruleID, &exec.RuleName, &eventID, &trigger, &status, &results, &exec.StartedAt, &exec.FinishedAt)
	if err != nil {
		return models.WorkflowExecution{}, err
	}

	exec.ID = id.ExecutionID(execID)
	exec.RuleID = id.RuleID(ruleID)
	exec.EventID = id.EventID(eventID)
	exec.TriggerType = models.TriggerType(trigger)
	exec.Status = models.ExecutionStatus(status)
	if len(results) > 0 {
		var records []actionResultRecord
		if err := json.Unmarshal(results, &records); err != nil {
			return models.WorkflowExecution{}, fmt.Errorf("decode action results: %w", err)
		}
		exec.ActionResults = fromResultRecords(records)
	}
	return exec, nil
}

func scanExecutions(rows *sql.Rows) ([]models.WorkflowExecution, error) {
	var execs []models.WorkflowExecution
	for rows.Next() {
		exec, err := scanExecution(rows)
		if err != nil {
			return nil, fmt.Errorf("scan execution record: %w", err)
		}
		execs = append(execs, exec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate execution records: %w", err)
	}
	return execs, nil
}
