package trace

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"expenses/internal/log"
)

func TestHandlerAssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Level: slog.LevelInfo, Output: &buf})
	m := NewMiddleware(logger, func(*http.Request) string { return "192.0.2.4" })

	var seen string
	h := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.True(t, strings.HasPrefix(seen, "req_"))
	assert.Equal(t, seen, rr.Header().Get("X-Request-ID"))
	assert.Contains(t, buf.String(), "status_code=418")
	assert.Contains(t, buf.String(), "client_ip=192.0.2.4")
	assert.Equal(t, int64(1), m.TotalRequests())
}

func TestHandlerKeepsClientRequestID(t *testing.T) {
	m := NewMiddleware(log.Discard(), nil)
	h := m.Handler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-ID", "abc-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	assert.Equal(t, "abc-123", rr.Header().Get("X-Request-ID"))
}
