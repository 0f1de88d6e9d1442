// Package domain holds typed identifiers shared across the automation
// subsystem. Wrapping uuid.UUID in distinct types makes cross-type
// assignment a compile error: a RuleID can never be passed where an
// EventID is expected.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain-errors"
)

// RuleID identifies a workflow rule.
type RuleID uuid.UUID

// EventID identifies an accepted event. Assigned at ingestion, never by
// the producer.
type EventID uuid.UUID

// ExecutionID identifies a recorded workflow execution.
type ExecutionID uuid.UUID

// WorkspaceID identifies the owning workspace of a rule.
type WorkspaceID uuid.UUID

// parseUUID enforces the shared parsing invariant: IDs must be valid,
// non-empty, non-nil UUIDs. Inputs arrive from trust boundaries (HTTP,
// Kafka, database rows), so anything malformed is rejected here.
func parseUUID(value string) (uuid.UUID, error) {
	if strings.TrimSpace(value) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be empty")
	}
	parsed, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil UUID")
	}
	return parsed, nil
}

// NewRuleID returns a fresh random RuleID.
func NewRuleID() RuleID { return RuleID(uuid.New()) }

// ParseRuleID parses and validates a RuleID from its string form.
func ParseRuleID(value string) (RuleID, error) {
	parsed, err := parseUUID(value)
	if err != nil {
		return RuleID{}, err
	}
	return RuleID(parsed), nil
}

func (r RuleID) String() string { return uuid.UUID(r).String() }
func (r RuleID) IsNil() bool    { return uuid.UUID(r) == uuid.Nil }

// NewEventID returns a fresh random EventID.
func NewEventID() EventID { return EventID(uuid.New()) }

// ParseEventID parses and validates an EventID from its string form.
func ParseEventID(value string) (EventID, error) {
	parsed, err := parseUUID(value)
	if err != nil {
		return EventID{}, err
	}
	return EventID(parsed), nil
}

func (e EventID) String() string { return uuid.UUID(e).String() }
func (e EventID) IsNil() bool    { return uuid.UUID(e) == uuid.Nil }

// NewExecutionID returns a fresh random ExecutionID.
func NewExecutionID() ExecutionID { return ExecutionID(uuid.New()) }

// ParseExecutionID parses and validates an ExecutionID from its string form.
func ParseExecutionID(value string) (ExecutionID, error) {
	parsed, err := parseUUID(value)
	if err != nil {
		return ExecutionID{}, err
	}
	return ExecutionID(parsed), nil
}

func (e ExecutionID) String() string { return uuid.UUID(e).String() }
func (e ExecutionID) IsNil() bool    { return uuid.UUID(e) == uuid.Nil }

// NewWorkspaceID returns a fresh random WorkspaceID.
func NewWorkspaceID() WorkspaceID { return WorkspaceID(uuid.New()) }

// ParseWorkspaceID parses and validates a WorkspaceID from its string form.
func ParseWorkspaceID(value string) (WorkspaceID, error) {
	parsed, err := parseUUID(value)
	if err != nil {
		return WorkspaceID{}, err
	}
	return WorkspaceID(parsed), nil
}

func (w WorkspaceID) String() string { return uuid.UUID(w).String() }
func (w WorkspaceID) IsNil() bool    { return uuid.UUID(w) == uuid.Nil }
