package security

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractClientIP(t *testing.T) {
	d := NewDetector()
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"direct", "203.0.113.7:5555", nil, "203.0.113.7"},
		{"untrusted peer ignores XFF", "203.0.113.7:5555", map[string]string{"X-Forwarded-For": "1.2.3.4"}, "203.0.113.7"},
		{"trusted proxy uses first XFF", "10.0.0.2:80", map[string]string{"X-Forwarded-For": "198.51.100.9, 10.0.0.1"}, "198.51.100.9"},
		{"trusted proxy falls back to X-Real-IP", "127.0.0.1:80", map[string]string{"X-Forwarded-For": "garbage", "X-Real-IP": "198.51.100.10"}, "198.51.100.10"},
		{"unparseable remote", "pipe", nil, "pipe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, d.ExtractClientIP(r))
		})
	}
}

func TestAddTrustedProxy(t *testing.T) {
	d := NewDetector()
	require.NoError(t, d.AddTrustedProxy("203.0.113.0/24"))
	assert.Error(t, d.AddTrustedProxy("nope"))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "203.0.113.7:1"
	r.Header.Set("X-Forwarded-For", "198.51.100.1")
	assert.Equal(t, "198.51.100.1", d.ExtractClientIP(r))
}

func TestSuspiciousRequestsPassThrough(t *testing.T) {
	d := NewDetector()
	h := d.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/expenses?x=../../etc/passwd", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(1), d.SuspiciousCount())

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/expenses", nil))
	assert.Equal(t, int64(1), d.SuspiciousCount())
}

func TestHeaders(t *testing.T) {
	h := Headers(DefaultHeadersConfig())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Empty(t, rr.Header().Get("Strict-Transport-Security"), "plain HTTP gets no HSTS")
}
