package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, queues, and outbound
// clients return these (optionally wrapped) so callers can translate them
// into domain errors at the service boundary.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store
// - ErrConflict: write conflicts with existing state (duplicate rule, replayed seed)
// - ErrInvalidState: entity in wrong state for requested operation
// - ErrUnavailable: backing service temporarily unavailable
// - ErrQueueFull: event queue at capacity, admission refused
// - ErrCircuitOpen: outbound circuit breaker rejecting calls
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
	ErrQueueFull    = errors.New("queue full")
	ErrCircuitOpen  = errors.New("circuit open")
)
