// Package requesttime pins request-scoped time. Everything one HTTP request
// touches observes the same "now": the event receive time, log timestamps,
// and any time-sensitive checks stay consistent within the request.
package requesttime

import (
	"net/http"
	"time"

	"github.com/DRYTRIX/TimeTracker-sub005/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request and
// stores it in the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
