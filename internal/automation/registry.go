package automation

import (
	"context"
	"sort"
	"sync"

	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/models"
	dErrors "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain-errors"
)

// ActionOutcome is what a handler reports back on success.
type ActionOutcome struct {
	// Detail is a short human-readable summary, e.g. the resolved
	// notification text or the id of a created record.
	Detail string
}

// ActionHandler applies one action kind. Parameters arrive with templates
// already resolved. Implementations must honor ctx cancellation; the
// dispatcher bounds every invocation with a timeout.
type ActionHandler interface {
	Execute(ctx context.Context, params map[string]any) (ActionOutcome, error)
}

// ActionHandlerFunc adapts a function to the ActionHandler interface.
type ActionHandlerFunc func(ctx context.Context, params map[string]any) (ActionOutcome, error)

func (f ActionHandlerFunc) Execute(ctx context.Context, params map[string]any) (ActionOutcome, error) {
	return f(ctx, params)
}

// HandlerRegistry maps action types to their handlers. Hosts register one
// handler per action type at startup; lookups at dispatch time are
// read-only and safe for concurrent use.
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[models.ActionType]ActionHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: make(map[models.ActionType]ActionHandler)}
}

// Register binds a handler to an action type. Registering an unknown action
// type or a nil handler is invalid input; registering the same type twice
// is a conflict, since silently replacing a handler would hide wiring bugs.
func (r *HandlerRegistry) Register(actionType models.ActionType, handler ActionHandler) error {
	if !actionType.Valid() {
		return dErrors.New(dErrors.CodeInvalidInput, "unknown action type: "+string(actionType))
	}
	if handler == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "handler must not be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[actionType]; exists {
		return dErrors.New(dErrors.CodeConflict, "handler already registered for action type: "+string(actionType))
	}
	r.handlers[actionType] = handler
	return nil
}

// Lookup returns the handler for an action type, if one is registered.
func (r *HandlerRegistry) Lookup(actionType models.ActionType) (ActionHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.handlers[actionType]
	return handler, ok
}

// Types returns the registered action types in stable order, for startup
// logging and readiness checks.
func (r *HandlerRegistry) Types() []models.ActionType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]models.ActionType, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
