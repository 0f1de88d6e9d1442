package rule

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/models"
	id "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain"
	"github.com/DRYTRIX/TimeTracker-sub005/pkg/platform/sentinel"
)

// PostgresStore reads workflow rules from PostgreSQL. The management surface
// owns writes; this store only selects, so it needs no transactions.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const ruleColumns = `id, workspace_id, name, trigger_type, condition, actions, priority, enabled, created_at, updated_at`

func (s *PostgresStore) ListByTrigger(ctx context.Context, trigger models.TriggerType) ([]models.WorkflowRule, error) {
	query := `
		SELECT ` + ruleColumns + `
		FROM workflow_rules
		WHERE trigger_type = $1 AND enabled
		ORDER BY priority DESC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, string(trigger))
	if err != nil {
		return nil, fmt.Errorf("list rules by trigger: %w", err)
	}
	defer rows.Close()
	return scanRules(rows)
}

func (s *PostgresStore) List(ctx context.Context) ([]models.WorkflowRule, error) {
	query := `
		SELECT ` + ruleColumns + `
		FROM workflow_rules
		ORDER BY priority DESC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	defer rows.Close()
	return scanRules(rows)
}

func (s *PostgresStore) Get(ctx context.Context, ruleID id.RuleID) (models.WorkflowRule, error) {
	query := `
		SELECT ` + ruleColumns + `
		FROM workflow_rules
		WHERE id = $1
	`
	row := s.db.QueryRowContext(ctx, query, uuid.UUID(ruleID))
	r, err := scanRule(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.WorkflowRule{}, sentinel.ErrNotFound
		}
		return models.WorkflowRule{}, fmt.Errorf("get rule: %w", err)
	}
	return r, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner) (models.WorkflowRule, error) {
	var (
		ruleID      uuid.UUID
		workspaceID uuid.UUID
		r           models.WorkflowRule
		trigger     string
		condition   []byte
		actions     []byte
	)
	err := row.Scan(&ruleID, &workspaceID, &r.Name, &trigger, &condition, &actions, &r.Priority, &r.Enabled, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return models.WorkflowRule{}, err
	}

	r.ID = id.RuleID(ruleID)
	r.WorkspaceID = id.WorkspaceID(workspaceID)
	r.TriggerType = models.TriggerType(trigger)
	if len(condition) > 0 {
		var cond models.Condition
		if err := json.Unmarshal(condition, &cond); err != nil {
			return models.WorkflowRule{}, fmt.Errorf("decode rule condition: %w", err)
		}
		r.Condition = &cond
	}
	if len(actions) > 0 {
		if err := json.Unmarshal(actions, &r.Actions); err != nil {
			return models.WorkflowRule{}, fmt.Errorf("decode rule actions: %w", err)
		}
	}
	return r, nil
}

func scanRules(rows *sql.Rows) ([]models.WorkflowRule, error) {
	var rules []models.WorkflowRule
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rules: %w", err)
	}
	return rules, nil
}
