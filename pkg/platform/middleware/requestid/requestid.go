// Package requestid assigns every request a correlation id. The id rides the
// context through the engine and comes back on the response, so one event's
// ingestion can be traced from producer logs to execution records.
package requestid

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/DRYTRIX/TimeTracker-sub005/pkg/requestcontext"
)

// Header carries the request id on both requests and responses.
const Header = "X-Request-ID"

const maxHeaderLength = 64

// Middleware reuses the caller's X-Request-ID when present and well-formed,
// otherwise generates one. The id is stored in the context and echoed on the
// response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(Header))
		if requestID == "" || len(requestID) > maxHeaderLength {
			requestID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		w.Header().Set(Header, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
