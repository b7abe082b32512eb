package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAuth(t *testing.T) {
	h := Auth("secret", "/api/health")(ok)

	tests := []struct {
		name   string
		path   string
		header map[string]string
		want   int
	}{
		{"missing token", "/api/live-games", nil, http.StatusUnauthorized},
		{"wrong key", "/api/live-games", map[string]string{"X-API-Key": "nope"}, http.StatusUnauthorized},
		{"api key header", "/api/live-games", map[string]string{"X-API-Key": "secret"}, http.StatusOK},
		{"bearer", "/api/live-games", map[string]string{"Authorization": "Bearer secret"}, http.StatusOK},
		{"bearer lower case scheme", "/api/status", map[string]string{"Authorization": "bearer secret"}, http.StatusOK},
		{"basic scheme", "/api/status", map[string]string{"Authorization": "Basic secret"}, http.StatusUnauthorized},
		{"public path", "/api/health", nil, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestAuthDisabled(t *testing.T) {
	rec := httptest.NewRecorder()
	Auth("")(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/live-games", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

type fakeLimiter struct {
	allow bool
	err   error
	keys  []string
}

func (f *fakeLimiter) Allow(_ context.Context, key string, _ int, _ time.Duration) (bool, error) {
	f.keys = append(f.keys, key)
	return f.allow, f.err
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name    string
		limiter *fakeLimiter
		want    int
	}{
		{"allowed", &fakeLimiter{allow: true}, http.StatusOK},
		{"rejected", &fakeLimiter{allow: false}, http.StatusTooManyRequests},
		{"limiter down fails open", &fakeLimiter{err: errors.New("redis down")}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := RateLimit(tt.limiter, 5, 1500*time.Millisecond, discard())(ok)
			req := httptest.NewRequest(http.MethodGet, "/api/live-games", nil)
			req.RemoteAddr = "203.0.113.9:4242"

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, []string{"api:203.0.113.9"}, tt.limiter.keys)
			if tt.want == http.StatusTooManyRequests {
				assert.Equal(t, "2", rec.Header().Get("Retry-After"))
				assert.JSONEq(t, `{"error":"rate limit exceeded"}`, rec.Body.String())
			}
		})
	}
}

func TestLoggingRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/live-games?x=1", nil))

	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, `"status":503`)
	assert.Contains(t, out, `"path":"/api/live-games"`)
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, `"component":"http"`)
}
