package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgfetch/video-bot/internal/ratelimit"
)

type fixedActive int

func (f fixedActive) ActiveCount() int { return int(f) }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	limiter := ratelimit.NewMemoryLimiter(5, time.Hour)
	return New("127.0.0.1:0", limiter, nil, fixedActive(2))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	s.srv.Handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestStats(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(5, time.Hour)
	s := New("127.0.0.1:0", limiter, nil, fixedActive(2))

	allowed, _, aerr := limiter.IsAllowed(context.Background(), 100)
	require.NoError(t, aerr)
	require.True(t, allowed)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	s.srv.Handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		ActiveDownloads int `json:"active_downloads"`
		RateLimit       struct {
			ActiveUsers        int `json:"active_users"`
			MaxRequestsPerUser int `json:"max_requests_per_user"`
		} `json:"rate_limit"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.ActiveDownloads)
	assert.Equal(t, 5, body.RateLimit.MaxRequestsPerUser)
	assert.GreaterOrEqual(t, body.RateLimit.ActiveUsers, 1)
}
