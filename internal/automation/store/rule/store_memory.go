package rule

import (
	"context"
	"sync"

	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/models"
	id "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain"
	"github.com/DRYTRIX/TimeTracker-sub005/pkg/platform/sentinel"
)

// MemoryStore keeps rules in process memory, for single-node deployments,
// seed files, and tests. Stored rules are treated as immutable: Put replaces
// the whole record, readers share the stored value.
type MemoryStore struct {
	mu    sync.RWMutex
	rules map[id.RuleID]models.WorkflowRule
}

func NewMemory() *MemoryStore {
	return &MemoryStore{rules: make(map[id.RuleID]models.WorkflowRule)}
}

// Put validates and stores a rule, replacing any previous version under the
// same id in one step.
func (s *MemoryStore) Put(_ context.Context, r models.WorkflowRule) error {
	if err := r.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[r.ID] = r
	return nil
}

// Delete removes a rule. Deleting an unknown id is not an error.
func (s *MemoryStore) Delete(_ context.Context, ruleID id.RuleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rules, ruleID)
	return nil
}

func (s *MemoryStore) ListByTrigger(_ context.Context, trigger models.TriggerType) ([]models.WorkflowRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.WorkflowRule, 0, len(s.rules))
	for _, r := range s.rules {
		if r.Enabled && r.TriggerType == trigger {
			matched = append(matched, r)
		}
	}
	sortRules(matched)
	return matched, nil
}

func (s *MemoryStore) List(_ context.Context) ([]models.WorkflowRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]models.WorkflowRule, 0, len(s.rules))
	for _, r := range s.rules {
		all = append(all, r)
	}
	sortRules(all)
	return all, nil
}

func (s *MemoryStore) Get(_ context.Context, ruleID id.RuleID) (models.WorkflowRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rules[ruleID]
	if !ok {
		return models.WorkflowRule{}, sentinel.ErrNotFound
	}
	return r, nil
}
