package rule

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/models"
)

const seedDoc = `
rules:
  - id: 7b8ad9a1-93c9-4a7b-9207-6579d696d7da
    name: Done task alert
    trigger: task_status_change
    priority: 10
    condition:
      logic: and
      children:
        - field: new_status
          op: eq
          value: done
        - field: project.name
          op: contains
          value: Internal
    actions:
      - type: send_notification
        parameters:
          message: "Task {{task.name}} is done"
          user_id: "{{task.assignee_id}}"
  - name: Invoice webhook
    trigger: invoice_paid
    enabled: false
    actions:
      - type: webhook_call
        parameters:
          url: https://hooks.example.com/invoices
`

func TestParseSeed(t *testing.T) {
	rules, err := ParseSeed([]byte(seedDoc))
	require.NoError(t, err)
	require.Len(t, rules, 2)

	alert := rules[0]
	assert.Equal(t, "7b8ad9a1-93c9-4a7b-9207-6579d696d7da", alert.ID.String())
	assert.Equal(t, "Done task alert", alert.Name)
	assert.Equal(t, models.TriggerTaskStatusChange, alert.TriggerType)
	assert.Equal(t, 10, alert.Priority)
	assert.True(t, alert.Enabled, "enabled defaults to true")

	require.NotNil(t, alert.Condition)
	assert.Equal(t, models.LogicAnd, alert.Condition.Logic)
	require.Len(t, alert.Condition.Children, 2)
	assert.Equal(t, "new_status", alert.Condition.Children[0].Field)
	assert.Equal(t, models.OpEq, alert.Condition.Children[0].Op)
	assert.Equal(t, "done", alert.Condition.Children[0].Value)
	assert.Equal(t, models.OpContains, alert.Condition.Children[1].Op)

	require.Len(t, alert.Actions, 1)
	assert.Equal(t, models.ActionSendNotification, alert.Actions[0].Type)
	assert.Equal(t, "Task {{task.name}} is done", alert.Actions[0].Parameters["message"])

	webhook := rules[1]
	assert.False(t, webhook.ID.IsNil(), "missing id is generated")
	assert.False(t, webhook.Enabled)
	assert.Equal(t, models.TriggerInvoicePaid, webhook.TriggerType)
}

func TestParseSeedRejectsUnknownTrigger(t *testing.T) {
	doc := `
rules:
  - name: Broken
    trigger: coffee_break
    actions:
      - type: send_notification
`
	_, err := ParseSeed([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Broken")
	assert.Contains(t, err.Error(), "coffee_break")
}

func TestParseSeedRejectsBadID(t *testing.T) {
	doc := `
rules:
  - id: not-a-uuid
    name: Broken
    trigger: manual_trigger
    actions:
      - type: send_notification
`
	_, err := ParseSeed([]byte(doc))
	require.Error(t, err)
}

func TestParseSeedRejectsRuleWithoutActions(t *testing.T) {
	doc := `
rules:
  - name: No actions
    trigger: manual_trigger
`
	_, err := ParseSeed([]byte(doc))
	require.Error(t, err)
}

func TestSeedMemory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedDoc), 0o600))

	store, err := SeedMemory(context.Background(), path)
	require.NoError(t, err)

	rules, err := store.ListByTrigger(context.Background(), models.TriggerTaskStatusChange)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "Done task alert", rules[0].Name)

	all, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2, "disabled rules are stored too")
}

func TestLoadSeedMissingFile(t *testing.T) {
	_, err := LoadSeed(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
