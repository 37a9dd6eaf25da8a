package requestutil

import (
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSanitizeRequestIDKeepsValid(t *testing.T) {
	for _, id := range []string{"abc", "req-123", "A_B-c9", "0123456789"} {
		assert.Equal(t, id, SanitizeRequestID(id))
	}
}

func TestSanitizeRequestIDRejectsInvalid(t *testing.T) {
	long := make([]byte, 65)
	for i := range long {
		long[i] = 'a'
	}
	for _, id := range []string{"", "has space", "semi;colon", "<script>", string(long)} {
		got := SanitizeRequestID(id)
		assert.NotEqual(t, id, got)
		_, err := uuid.Parse(got)
		assert.NoError(t, err, "replacement should be a uuid")
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.2")
	assert.Equal(t, "203.0.113.9", ClientIP(r))
}

func TestClientIPFallsBackToRemoteAddr(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, "10.0.0.1:1234", ClientIP(r))
}

func TestClientIPNilRequest(t *testing.T) {
	assert.Equal(t, "", ClientIP(nil))
}
