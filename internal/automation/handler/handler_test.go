package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation"
	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/models"
	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/store/execution"
	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/store/rule"
	id "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain"
)

// HandlerSuite runs the HTTP surface against real in-memory components so
// tests exercise parsing and response mapping, not store behavior.
type HandlerSuite struct {
	suite.Suite
	router http.Handler
	rules  *rule.MemoryStore
	execs  *execution.MemoryStore
	ctx    context.Context
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctx = context.Background()
	s.rules = rule.NewMemory()
	s.execs = execution.NewMemory()

	registry := automation.NewHandlerRegistry()
	s.Require().NoError(registry.Register(models.ActionSendNotification, automation.ActionHandlerFunc(
		func(ctx context.Context, params map[string]any) (automation.ActionOutcome, error) {
			return automation.ActionOutcome{Detail: "ok"}, nil
		})))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	matcher, err := automation.NewMatcher(s.rules)
	s.Require().NoError(err)
	dispatcher, err := automation.NewDispatcher(registry, automation.WithDispatcherLogger(logger))
	s.Require().NoError(err)
	recorder, err := automation.NewRecorder(s.execs, automation.WithRecorderLogger(logger))
	s.Require().NoError(err)

	// Workers are never started: Accept only enqueues, which is all the
	// handler contract covers.
	engine, err := automation.New(matcher, dispatcher, recorder,
		automation.WithLogger(logger),
		automation.WithQueueSize(2),
	)
	s.Require().NoError(err)

	h := New(engine, s.execs, s.rules, logger)
	r := chi.NewRouter()
	h.Register(r)
	s.router = r
}

func (s *HandlerSuite) postEvent(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/automation/events", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// ===== POST /automation/events =====

func (s *HandlerSuite) TestTriggerEvent_Accepted() {
	rec := s.postEvent(`{"type":"task_status_change","payload":{"new_status":"done"}}`)
	require.Equal(s.T(), http.StatusAccepted, rec.Code)

	var resp TriggerEventResponse
	require.NoError(s.T(), json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(s.T(), resp.EventID)
	assert.Equal(s.T(), "task_status_change", resp.Type)
	assert.False(s.T(), resp.ReceivedAt.IsZero())
}

func (s *HandlerSuite) TestTriggerEvent_InvalidJSON() {
	rec := s.postEvent(`{"type":`)
	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestTriggerEvent_UnknownType() {
	rec := s.postEvent(`{"type":"coffee_break","payload":{}}`)
	require.Equal(s.T(), http.StatusBadRequest, rec.Code)

	var resp struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	require.NoError(s.T(), json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(s.T(), resp.ErrorDescription, "coffee_break")
}

func (s *HandlerSuite) TestTriggerEvent_MissingPayload() {
	rec := s.postEvent(`{"type":"task_status_change"}`)
	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestTriggerEvent_QueueFull() {
	// Queue size is 2; the third event has nowhere to go.
	for i := 0; i < 2; i++ {
		rec := s.postEvent(`{"type":"manual_trigger","payload":{}}`)
		require.Equal(s.T(), http.StatusAccepted, rec.Code)
	}

	rec := s.postEvent(`{"type":"manual_trigger","payload":{}}`)
	assert.Equal(s.T(), http.StatusServiceUnavailable, rec.Code)
}

// ===== GET /automation/executions =====

func (s *HandlerSuite) seedExecution(ruleID id.RuleID, status models.ExecutionStatus, startedAt time.Time) models.WorkflowExecution {
	exec := models.WorkflowExecution{
		ID:          id.NewExecutionID(),
		RuleID:      ruleID,
		RuleName:    "Done task alert",
		EventID:     id.NewEventID(),
		TriggerType: models.TriggerTaskStatusChange,
		Status:      status,
		ActionResults: []models.ActionResult{{
			Type:      models.ActionSendNotification,
			Success:   status == models.StatusSuccess,
			Detail:    "notification sent",
			StartedAt: startedAt,
			Duration:  42 * time.Millisecond,
		}},
		StartedAt:  startedAt,
		FinishedAt: startedAt.Add(50 * time.Millisecond),
	}
	s.Require().NoError(s.execs.Append(s.ctx, exec))
	return exec
}

func (s *HandlerSuite) TestListExecutions() {
	ruleID := id.NewRuleID()
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	s.seedExecution(ruleID, models.StatusSuccess, base)
	s.seedExecution(id.NewRuleID(), models.StatusFailed, base.Add(time.Minute))

	req := httptest.NewRequest(http.MethodGet, "/automation/executions", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var resp []ExecutionResponse
	require.NoError(s.T(), json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(s.T(), resp, 2)
	assert.Equal(s.T(), "failed", resp[0].Status, "newest first")
	require.Len(s.T(), resp[1].ActionResults, 1)
	assert.Equal(s.T(), int64(42), resp[1].ActionResults[0].DurationMS)
}

func (s *HandlerSuite) TestListExecutions_FilterByRule() {
	ruleID := id.NewRuleID()
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	want := s.seedExecution(ruleID, models.StatusSuccess, base)
	s.seedExecution(id.NewRuleID(), models.StatusSuccess, base.Add(time.Minute))

	req := httptest.NewRequest(http.MethodGet, "/automation/executions?rule_id="+ruleID.String(), nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var resp []ExecutionResponse
	require.NoError(s.T(), json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(s.T(), resp, 1)
	assert.Equal(s.T(), want.ID.String(), resp[0].ID)
}

func (s *HandlerSuite) TestListExecutions_BadQuery() {
	for name, query := range map[string]string{
		"bad rule_id": "rule_id=not-a-uuid",
		"bad status":  "status=exploded",
		"bad from":    "from=yesterday",
		"bad limit":   "limit=-3",
	} {
		s.Run(name, func() {
			req := httptest.NewRequest(http.MethodGet, "/automation/executions?"+query, nil)
			rec := httptest.NewRecorder()
			s.router.ServeHTTP(rec, req)
			assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
		})
	}
}

// ===== GET /automation/executions/{id} =====

func (s *HandlerSuite) TestGetExecution() {
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	want := s.seedExecution(id.NewRuleID(), models.StatusPartial, base)

	req := httptest.NewRequest(http.MethodGet, "/automation/executions/"+want.ID.String(), nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var resp ExecutionResponse
	require.NoError(s.T(), json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(s.T(), want.ID.String(), resp.ID)
	assert.Equal(s.T(), "partial", resp.Status)
}

func (s *HandlerSuite) TestGetExecution_NotFound() {
	req := httptest.NewRequest(http.MethodGet, "/automation/executions/"+id.NewExecutionID().String(), nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(s.T(), http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestGetExecution_BadID() {
	req := httptest.NewRequest(http.MethodGet, "/automation/executions/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
}

// ===== GET /automation/rules =====

func (s *HandlerSuite) TestListRules() {
	stored := models.WorkflowRule{
		ID:          id.NewRuleID(),
		Name:        "Done task alert",
		TriggerType: models.TriggerTaskStatusChange,
		Condition:   &models.Condition{Field: "new_status", Op: models.OpEq, Value: "done"},
		Actions: []models.ActionSpec{{
			Type:       models.ActionSendNotification,
			Parameters: map[string]any{"message": "Task {{task.name}} is done"},
		}},
		Priority: 10,
		Enabled:  true,
	}
	s.Require().NoError(s.rules.Put(s.ctx, stored))

	req := httptest.NewRequest(http.MethodGet, "/automation/rules", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var resp []RuleResponse
	require.NoError(s.T(), json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(s.T(), resp, 1)
	assert.Equal(s.T(), stored.ID.String(), resp[0].ID)
	assert.Equal(s.T(), "task_status_change", resp[0].TriggerType)
	require.NotNil(s.T(), resp[0].Condition)
	assert.Equal(s.T(), "new_status", resp[0].Condition.Field)
	require.Len(s.T(), resp[0].Actions, 1)
	assert.Equal(s.T(), "Task {{task.name}} is done", resp[0].Actions[0].Parameters["message"])
}
