package testutil

import (
	"context"
	"net/http"
	"time"

	"github.com/DRYTRIX/TimeTracker-sub005/pkg/requestcontext"
)

// WithProducer adds an authenticated producer to the request context.
// This simulates what the auth middleware would do for authenticated requests.
func WithProducer(req *http.Request, producer string) *http.Request {
	ctx := requestcontext.WithProducer(req.Context(), producer)
	return req.WithContext(ctx)
}

// WithRequestID adds a request ID to the request context, as the request-id
// middleware would.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	ctx := requestcontext.WithRequestID(req.Context(), requestID)
	return req.WithContext(ctx)
}

// WithRequestTime pins the request-scoped clock so handlers observe a fixed
// time instead of time.Now().
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	ctx := requestcontext.WithTime(req.Context(), t)
	return req.WithContext(ctx)
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
