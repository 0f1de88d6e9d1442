// Package handler exposes the automation HTTP surface: event ingestion plus
// the read-only execution and rule queries.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/models"
	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/store/execution"
	id "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain"
	dErrors "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain-errors"
	"github.com/DRYTRIX/TimeTracker-sub005/pkg/platform/httputil"
	"github.com/DRYTRIX/TimeTracker-sub005/pkg/platform/sentinel"
	"github.com/DRYTRIX/TimeTracker-sub005/pkg/requestcontext"
)

// Acceptor admits events into the engine without waiting on processing.
type Acceptor interface {
	Accept(ctx context.Context, trigger models.TriggerType, payload map[string]any, source models.EventSource, occurredAt time.Time) (models.Event, error)
}

// ExecutionReader is the query side of the execution store.
type ExecutionReader interface {
	List(ctx context.Context, filter execution.Filter) ([]models.WorkflowExecution, error)
	Get(ctx context.Context, execID id.ExecutionID) (models.WorkflowExecution, error)
}

// RuleReader lists the rule snapshot the engine matches against.
type RuleReader interface {
	List(ctx context.Context) ([]models.WorkflowRule, error)
}

// Handler wires automation endpoints to the engine and stores.
type Handler struct {
	engine     Acceptor
	executions ExecutionReader
	rules      RuleReader
	logger     *slog.Logger
}

// New constructs an automation handler with its dependencies.
func New(engine Acceptor, executions ExecutionReader, rules RuleReader, logger *slog.Logger) *Handler {
	return &Handler{
		engine:     engine,
		executions: executions,
		rules:      rules,
		logger:     logger,
	}
}

// Register mounts automation endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/automation/events", h.HandleTriggerEvent)
	r.Get("/automation/executions", h.HandleListExecutions)
	r.Get("/automation/executions/{executionID}", h.HandleGetExecution)
	r.Get("/automation/rules", h.HandleListRules)
}

// HandleTriggerEvent handles POST /automation/events requests. A 202 means
// the event is queued, nothing more; matching and dispatch happen on the
// engine's workers.
func (h *Handler) HandleTriggerEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[TriggerEventRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	event, err := h.engine.Accept(ctx, req.ParsedType(), req.Payload, models.SourceAPI, req.OccurredAtOrZero())
	if err != nil {
		h.logger.WarnContext(ctx, "event rejected",
			"request_id", requestID,
			"trigger", req.Type,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "event accepted",
		"request_id", requestID,
		"event_id", event.ID,
		"trigger", event.Type,
	)

	httputil.WriteJSON(w, http.StatusAccepted, TriggerEventResponse{
		EventID:    event.ID.String(),
		Type:       string(event.Type),
		ReceivedAt: event.ReceivedAt,
	})
}

// HandleListExecutions handles GET /automation/executions requests.
func (h *Handler) HandleListExecutions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, err := filterFromQuery(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	execs, err := h.executions.List(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "execution list failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromExecutions(execs))
}

// HandleGetExecution handles GET /automation/executions/{executionID}.
func (h *Handler) HandleGetExecution(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	execID, err := id.ParseExecutionID(chi.URLParam(r, "executionID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "execution id must be a UUID"))
		return
	}

	exec, err := h.executions.Get(ctx, execID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "execution not found"))
			return
		}
		h.logger.ErrorContext(ctx, "execution fetch failed",
			"request_id", requestcontext.RequestID(ctx),
			"execution_id", execID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromExecution(exec))
}

// HandleListRules handles GET /automation/rules. It reads through the same
// cached source the matcher uses, so the listing shows exactly the snapshot
// the engine applies.
func (h *Handler) HandleListRules(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rules, err := h.rules.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "rule list failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromRules(rules))
}

// filterFromQuery parses the list query parameters. Unknown values reject
// the request rather than silently returning an unfiltered page.
func filterFromQuery(r *http.Request) (execution.Filter, error) {
	var filter execution.Filter
	query := r.URL.Query()

	if raw := query.Get("rule_id"); raw != "" {
		ruleID, err := id.ParseRuleID(raw)
		if err != nil {
			return filter, dErrors.New(dErrors.CodeBadRequest, "rule_id must be a UUID")
		}
		filter.RuleID = ruleID
	}

	if raw := query.Get("status"); raw != "" {
		status, err := models.ParseExecutionStatus(raw)
		if err != nil {
			return filter, err
		}
		filter.Status = status
	}

	if raw := query.Get("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, dErrors.New(dErrors.CodeBadRequest, "from must be an RFC 3339 timestamp")
		}
		filter.From = from
	}

	if raw := query.Get("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, dErrors.New(dErrors.CodeBadRequest, "to must be an RFC 3339 timestamp")
		}
		filter.To = to
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return filter, dErrors.New(dErrors.CodeBadRequest, "limit must be a non-negative integer")
		}
		filter.Limit = limit
	}

	if raw := query.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return filter, dErrors.New(dErrors.CodeBadRequest, "offset must be a non-negative integer")
		}
		filter.Offset = offset
	}

	return filter, nil
}
