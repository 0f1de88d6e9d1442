package handler

import (
	"strings"
	"time"

	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/models"
	dErrors "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain-errors"
)

// TriggerEventRequest is the HTTP request body for POST /automation/events.
type TriggerEventRequest struct {
	Type       string         `json:"type"`
	Payload    map[string]any `json:"payload"`
	OccurredAt *time.Time     `json:"occurred_at"`

	// Parsed values (populated by Prepare)
	parsedType models.TriggerType
}

// Prepare normalizes and validates the request.
func (r *TriggerEventRequest) Prepare() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.Type = strings.TrimSpace(r.Type)
	if r.Type == "" {
		return dErrors.New(dErrors.CodeBadRequest, "type is required")
	}
	trigger, err := models.ParseTriggerType(r.Type)
	if err != nil {
		return err
	}
	r.parsedType = trigger

	if r.Payload == nil {
		return dErrors.New(dErrors.CodeBadRequest, "payload is required")
	}
	return nil
}

// ParsedType returns the validated trigger type.
func (r *TriggerEventRequest) ParsedType() models.TriggerType {
	return r.parsedType
}

// OccurredAtOrZero returns the declared occurrence time, or zero when the
// producer left it out so the engine falls back to the receive time.
func (r *TriggerEventRequest) OccurredAtOrZero() time.Time {
	if r.OccurredAt == nil {
		return time.Time{}
	}
	return *r.OccurredAt
}
