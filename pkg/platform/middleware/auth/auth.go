// Package auth guards the automation API. Callers are services rather than
// end users: they present either a bearer JWT minted for service-to-service
// calls or an API key. The authenticated identity lands in the context as
// the event producer.
package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/DRYTRIX/TimeTracker-sub005/pkg/platform/secrets"
	"github.com/DRYTRIX/TimeTracker-sub005/pkg/requestcontext"
)

// APIKeyHeader carries the API key alternative to bearer tokens.
const APIKeyHeader = "X-API-Key"

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims are the token claims the automation service consumes.
type Claims struct {
	// Subject identifies the calling service or user.
	Subject string
}

// KeyVerifier checks an API key and returns the producer name it belongs to.
type KeyVerifier interface {
	VerifyKey(key string) (string, error)
}

// writeJSONError writes a JSON error response with the given status code and error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireAuth accepts either a valid bearer token or a valid API key.
// Either validator may be nil when that credential kind is not configured;
// with both nil every request is rejected.
func RequireAuth(validator TokenValidator, keys KeyVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			authHeader := r.Header.Get("Authorization")
			if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
				if validator == nil {
					writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Bearer tokens are not accepted")
					return
				}
				claims, err := validator.ValidateToken(token)
				if err != nil {
					logger.WarnContext(ctx, "unauthorized access - invalid token",
						"error", err,
						"request_id", requestID,
					)
					writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
					return
				}

				ctx = requestcontext.WithProducer(ctx, claims.Subject)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if key := r.Header.Get(APIKeyHeader); key != "" {
				if keys == nil {
					writeJSONError(w, http.StatusUnauthorized, "unauthorized", "API keys are not accepted")
					return
				}
				producer, err := keys.VerifyKey(key)
				if err != nil {
					logger.WarnContext(ctx, "unauthorized access - invalid api key",
						"request_id", requestID,
					)
					writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key")
					return
				}

				ctx = requestcontext.WithProducer(ctx, producer)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			logger.WarnContext(ctx, "unauthorized access - missing credentials",
				"request_id", requestID,
			)
			writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
		})
	}
}

// StaticKeyVerifier checks API keys against a single bcrypt hash from
// configuration. Deployments with one operator key use this; multi-key
// setups implement KeyVerifier over a store.
type StaticKeyVerifier struct {
	hash string
	name string
}

// NewStaticKeyVerifier creates a verifier for one hashed key. The name is
// what shows up as the event producer for requests using this key.
func NewStaticKeyVerifier(hash, name string) *StaticKeyVerifier {
	if name == "" {
		name = "api-key"
	}
	return &StaticKeyVerifier{hash: hash, name: name}
}

// VerifyKey implements KeyVerifier.
func (v *StaticKeyVerifier) VerifyKey(key string) (string, error) {
	if v.hash == "" {
		return "", fmt.Errorf("no api key configured")
	}
	if err := secrets.Verify(key, v.hash); err != nil {
		return "", fmt.Errorf("api key mismatch")
	}
	return v.name, nil
}
