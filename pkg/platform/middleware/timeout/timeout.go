// Package timeout bounds request handling with a context deadline. Store
// queries inherit the deadline, so a slow backend surfaces as a request
// error instead of a held connection.
package timeout

import (
	"context"
	"net/http"
	"time"
)

// Middleware wraps each request context with the given deadline.
func Middleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
