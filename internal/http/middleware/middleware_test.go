package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtwire/nba-sim-service/internal/metrics"
	"github.com/courtwire/nba-sim-service/internal/testutil"
)

func TestLoggingSetsRequestIDHeader(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	var seenID string
	handler := Logging(logger, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "req-42", seenID)
	assert.Contains(t, buf.String(), "request complete")
	assert.Contains(t, buf.String(), "req-42")
	assert.Contains(t, buf.String(), "status_code=204")
}

func TestLoggingReplacesInvalidRequestID(t *testing.T) {
	logger, _ := testutil.NewBufferLogger()
	handler := Logging(logger, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "bad id!")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	got := rec.Header().Get("X-Request-ID")
	assert.NotEmpty(t, got)
	assert.NotEqual(t, "bad id!", got)
}

func TestLoggingCapturesStatus(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	recorder := metrics.NewRecorder()
	handler := Logging(logger, recorder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/games", nil))

	require.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, buf.String(), "status_code=418")
}

func TestRequestIDFromContextMissing(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	assert.Equal(t, "", RequestIDFromContext(req.Context()))
}
