package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DRYTRIX/TimeTracker-sub005/pkg/platform/secrets"
	"github.com/DRYTRIX/TimeTracker-sub005/pkg/requestcontext"
)

type staticValidator struct {
	subject string
	err     error
}

func (v *staticValidator) ValidateToken(token string) (*Claims, error) {
	if v.err != nil {
		return nil, v.err
	}
	return &Claims{Subject: v.subject}, nil
}

func protectedEcho(t *testing.T, validator TokenValidator, keys KeyVerifier) (http.Handler, *string) {
	t.Helper()

	var producer string
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		producer = requestcontext.Producer(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	return RequireAuth(validator, keys, logger)(next), &producer
}

func Test_RequireAuth_BearerToken(t *testing.T) {
	handler, producer := protectedEcho(t, &staticValidator{subject: "tracker-core"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/automation/rules", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "tracker-core", *producer)
}

func Test_RequireAuth_InvalidBearerToken(t *testing.T) {
	handler, _ := protectedEcho(t, &staticValidator{err: errors.New("bad signature")}, nil)

	req := httptest.NewRequest(http.MethodGet, "/automation/rules", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid or expired token")
}

func Test_RequireAuth_BearerWithoutValidator(t *testing.T) {
	handler, _ := protectedEcho(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/automation/rules", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func Test_RequireAuth_APIKey(t *testing.T) {
	key, err := secrets.Generate()
	require.NoError(t, err)
	hash, err := secrets.Hash(key)
	require.NoError(t, err)

	handler, producer := protectedEcho(t, nil, NewStaticKeyVerifier(hash, "ops-key"))

	req := httptest.NewRequest(http.MethodGet, "/automation/executions", nil)
	req.Header.Set(APIKeyHeader, key)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "ops-key", *producer)
}

func Test_RequireAuth_WrongAPIKey(t *testing.T) {
	hash, err := secrets.Hash("the-real-key")
	require.NoError(t, err)

	handler, _ := protectedEcho(t, nil, NewStaticKeyVerifier(hash, "ops-key"))

	req := httptest.NewRequest(http.MethodGet, "/automation/executions", nil)
	req.Header.Set(APIKeyHeader, "guessed-key")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid API key")
}

func Test_RequireAuth_MissingCredentials(t *testing.T) {
	handler, _ := protectedEcho(t, &staticValidator{subject: "tracker-core"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/automation/rules", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing or invalid Authorization header")
}
