package rule

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/models"
	id "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain"
)

// seedFile is the on-disk shape for rule seed files, used by single-node
// deployments that run without the rule management database.
type seedFile struct {
	Rules []seedRule `yaml:"rules"`
}

type seedRule struct {
	ID          string              `yaml:"id"`
	WorkspaceID string              `yaml:"workspace_id"`
	Name        string              `yaml:"name"`
	Trigger     string              `yaml:"trigger"`
	Priority    int                 `yaml:"priority"`
	Enabled     *bool               `yaml:"enabled"`
	Condition   *models.Condition   `yaml:"condition"`
	Actions     []models.ActionSpec `yaml:"actions"`
}

func (r seedRule) toRule(now time.Time) (models.WorkflowRule, error) {
	rule := models.WorkflowRule{
		Name:      r.Name,
		Condition: r.Condition,
		Actions:   r.Actions,
		Priority:  r.Priority,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if r.Enabled != nil {
		rule.Enabled = *r.Enabled
	}

	if r.ID == "" {
		rule.ID = id.NewRuleID()
	} else {
		ruleID, err := id.ParseRuleID(r.ID)
		if err != nil {
			return models.WorkflowRule{}, err
		}
		rule.ID = ruleID
	}

	if r.WorkspaceID != "" {
		workspaceID, err := id.ParseWorkspaceID(r.WorkspaceID)
		if err != nil {
			return models.WorkflowRule{}, err
		}
		rule.WorkspaceID = workspaceID
	}

	trigger, err := models.ParseTriggerType(r.Trigger)
	if err != nil {
		return models.WorkflowRule{}, err
	}
	rule.TriggerType = trigger

	if err := rule.Validate(); err != nil {
		return models.WorkflowRule{}, err
	}
	return rule, nil
}

// LoadSeed parses a YAML seed file into validated rules. Any invalid rule
// fails the whole load; a seed file is configuration, not user input.
func LoadSeed(path string) ([]models.WorkflowRule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule seed file: %w", err)
	}
	return ParseSeed(raw)
}

// ParseSeed parses seed YAML bytes into validated rules.
func ParseSeed(raw []byte) ([]models.WorkflowRule, error) {
	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse rule seed file: %w", err)
	}

	now := time.Now()
	rules := make([]models.WorkflowRule, 0, len(file.Rules))
	for i, seed := range file.Rules {
		rule, err := seed.toRule(now)
		if err != nil {
			return nil, fmt.Errorf("seed rule %d (%q): %w", i, seed.Name, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// SeedMemory loads a seed file into a fresh memory store.
func SeedMemory(ctx context.Context, path string) (*MemoryStore, error) {
	rules, err := LoadSeed(path)
	if err != nil {
		return nil, err
	}

	store := NewMemory()
	for _, rule := range rules {
		if err := store.Put(ctx, rule); err != nil {
			return nil, err
		}
	}
	return store, nil
}
