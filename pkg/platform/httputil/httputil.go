// Package httputil centralizes JSON encoding and domain-error translation
// for HTTP handlers, keeping transport concerns out of services.
package httputil

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	dErrors "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain-errors"
)

// errorResponse is the JSON error envelope shared by all endpoints.
type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// statusForCode maps domain error codes to HTTP status codes.
func statusForCode(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest, dErrors.CodeInvalidInput:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case dErrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the JSON error envelope.
// Internal and invariant errors suppress the description so implementation
// details never leak to callers.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := statusForCode(code)

	resp := errorResponse{Error: string(code)}
	if status < http.StatusInternalServerError {
		resp.ErrorDescription = dErrors.MessageOf(err)
	}
	WriteJSON(w, status, resp)
}

// Preparer is implemented by request DTOs that normalize and validate
// themselves after decoding.
type Preparer interface {
	Prepare() error
}

// preparerPtr constrains PT to be a pointer to T that implements Preparer,
// so DecodeAndPrepare can be instantiated with the value type alone.
type preparerPtr[T any] interface {
	*T
	Preparer
}

// DecodeAndPrepare decodes the JSON request body into T, then runs its
// Prepare hook. On failure it writes a bad_request response and returns
// ok=false; the handler should return immediately.
func DecodeAndPrepare[T any, PT preparerPtr[T]](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (T, bool) {
	var req T

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if logger != nil {
			logger.WarnContext(ctx, "request body decode failed",
				"request_id", requestID,
				"error", err,
			)
		}
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "request body is not valid JSON"))
		return req, false
	}

	if err := PT(&req).Prepare(); err != nil {
		if logger != nil {
			logger.WarnContext(ctx, "request validation failed",
				"request_id", requestID,
				"error", err,
			)
		}
		WriteError(w, err)
		return req, false
	}

	return req, true
}
