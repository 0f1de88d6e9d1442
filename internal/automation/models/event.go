package models

import (
	"time"

	id "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain"
	dErrors "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain-errors"
)

// EventSource tags which ingress produced an event.
type EventSource string

const (
	SourceAPI       EventSource = "api"
	SourceScheduler EventSource = "scheduler"
	SourceKafka     EventSource = "kafka"
)

// Event is an immutable occurrence flowing through the engine. The payload
// is deep-copied at admission, so later producer mutations of the original
// map can never change what rules and templates observe.
type Event struct {
	ID         id.EventID
	Type       TriggerType
	Source     EventSource
	Payload    map[string]any
	OccurredAt time.Time
	ReceivedAt time.Time
}

// NewEvent admits a raw occurrence: validates the trigger, snapshots the
// payload, and assigns the engine-owned event ID. Producers never choose
// event IDs.
func NewEvent(trigger TriggerType, payload map[string]any, source EventSource, occurredAt, receivedAt time.Time) (Event, error) {
	if !trigger.Valid() {
		return Event{}, dErrors.New(dErrors.CodeBadRequest, "unsupported trigger type: "+string(trigger))
	}
	if payload == nil {
		return Event{}, dErrors.New(dErrors.CodeBadRequest, "event payload is required")
	}
	if occurredAt.IsZero() {
		occurredAt = receivedAt
	}

	return Event{
		ID:         id.NewEventID(),
		Type:       trigger,
		Source:     source,
		Payload:    copyPayload(payload),
		OccurredAt: occurredAt,
		ReceivedAt: receivedAt,
	}, nil
}

// copyPayload deep-copies the JSON-shaped payload graph (maps, slices,
// scalars). Values of other types are carried by reference; producers
// handing the engine non-JSON values keep the aliasing risk.
func copyPayload(payload map[string]any) map[string]any {
	copied := make(map[string]any, len(payload))
	for key, value := range payload {
		copied[key] = copyValue(value)
	}
	return copied
}

func copyValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return copyPayload(v)
	case []any:
		copied := make([]any, len(v))
		for i, elem := range v {
			copied[i] = copyValue(elem)
		}
		return copied
	case []string:
		return append([]string(nil), v...)
	default:
		return v
	}
}
