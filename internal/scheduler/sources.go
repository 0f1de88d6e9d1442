package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/models"
	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/ports"
)

// Sources returns the standard scan set backed by the tracker feed. horizon
// is how far ahead deadline scans look.
func Sources(feed ports.SchedulerFeed, horizon time.Duration) []Source {
	return []Source{
		DeadlineSource(feed, horizon),
		BudgetSource(feed),
		RecurringSource(feed),
	}
}

// DeadlineSource fires deadline_approaching for tasks due within horizon.
// The guard key includes the due date, so a rescheduled task fires again.
func DeadlineSource(feed ports.SchedulerFeed, horizon time.Duration) Source {
	return Source{
		Trigger: models.TriggerDeadlineApproaching,
		Scan: func(ctx context.Context) ([]Firing, error) {
			items, err := feed.ApproachingDeadlines(ctx, horizon)
			if err != nil {
				return nil, err
			}

			firings := make([]Firing, 0, len(items))
			for _, item := range items {
				firings = append(firings, Firing{
					Key: fmt.Sprintf("deadline_approaching:%s:%d", item.TaskID, item.DueAt.Unix()),
					Payload: map[string]any{
						"task": map[string]any{
							"id":         item.TaskID,
							"name":       item.TaskName,
							"project_id": item.ProjectID,
						},
						"due_at": item.DueAt.UTC().Format(time.RFC3339),
					},
				})
			}
			return firings, nil
		},
	}
}

// BudgetSource fires budget_threshold_reached for projects whose tracked
// hours crossed a budget threshold. The guard key includes the threshold,
// so crossing 80% and later 100% fire separately.
func BudgetSource(feed ports.SchedulerFeed) Source {
	return Source{
		Trigger: models.TriggerBudgetThresholdReached,
		Scan: func(ctx context.Context) ([]Firing, error) {
			items, err := feed.ExceededBudgets(ctx)
			if err != nil {
				return nil, err
			}

			firings := make([]Firing, 0, len(items))
			for _, item := range items {
				firings = append(firings, Firing{
					Key: fmt.Sprintf("budget_threshold_reached:%s:%.2f", item.ProjectID, item.Threshold),
					Payload: map[string]any{
						"project": map[string]any{
							"id":   item.ProjectID,
							"name": item.ProjectName,
						},
						"budget_hours": item.BudgetHours,
						"used_hours":   item.UsedHours,
						"threshold":    item.Threshold,
					},
				})
			}
			return firings, nil
		},
	}
}

// RecurringSource fires recurring_check for due recurring schedules. The
// firings carry no guard key: recurrence is periodic on purpose, and the
// tracker stops returning a schedule once it has been materialized.
func RecurringSource(feed ports.SchedulerFeed) Source {
	return Source{
		Trigger: models.TriggerRecurringCheck,
		Scan: func(ctx context.Context) ([]Firing, error) {
			items, err := feed.DueRecurring(ctx, time.Now())
			if err != nil {
				return nil, err
			}

			firings := make([]Firing, 0, len(items))
			for _, item := range items {
				firings = append(firings, Firing{
					Payload: map[string]any{
						"schedule": map[string]any{
							"id":         item.ScheduleID,
							"project_id": item.ProjectID,
							"task_name":  item.TaskName,
						},
						"due_at": item.DueAt.UTC().Format(time.RFC3339),
					},
					OccurredAt: item.DueAt,
				})
			}
			return firings, nil
		},
	}
}
