package execution

import (
	"context"
	"sort"
	"sync"

	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/models"
	id "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain"
	"github.com/DRYTRIX/TimeTracker-sub005/pkg/platform/sentinel"
)

// MemoryStore keeps execution records in process memory, for single-node
// deployments and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records []models.WorkflowExecution
	byID    map[id.ExecutionID]int
}

func NewMemory() *MemoryStore {
	return &MemoryStore{byID: make(map[id.ExecutionID]int)}
}

func (s *MemoryStore) Append(_ context.Context, exec models.WorkflowExecution) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[exec.ID]; exists {
		return nil
	}
	s.byID[exec.ID] = len(s.records)
	s.records = append(s.records, exec)
	return nil
}

func (s *MemoryStore) List(_ context.Context, filter Filter) ([]models.WorkflowExecution, error) {
	filter = filter.normalized()

	s.mu.RLock()
	matched := make([]models.WorkflowExecution, 0, len(s.records))
	for _, exec := range s.records {
		if filter.matches(exec) {
			matched = append(matched, exec)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].StartedAt.Equal(matched[j].StartedAt) {
			return matched[i].StartedAt.After(matched[j].StartedAt)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})

	if filter.Offset >= len(matched) {
		return []models.WorkflowExecution{}, nil
	}
	matched = matched[filter.Offset:]
	if len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (s *MemoryStore) Get(_ context.Context, execID id.ExecutionID) (models.WorkflowExecution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[execID]
	if !ok {
		return models.WorkflowExecution{}, sentinel.ErrNotFound
	}
	return s.records[idx], nil
}

// Count returns the number of stored records, for tests and diagnostics.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}
