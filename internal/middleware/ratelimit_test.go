package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLimiterStore_BurstThenDeny(t *testing.T) {
	req := require.New(t)

	store := NewLimiterStore(5, 3, time.Minute)
	defer store.Stop()

	for i := 0; i < 3; i++ {
		req.True(store.Allow("10.0.0.1"), "request %d within burst", i)
	}
	req.False(store.Allow("10.0.0.1"))

	// Other clients are tracked independently
	req.True(store.Allow("10.0.0.2"))
}

func TestRateLimit_Returns429(t *testing.T) {
	req := require.New(t)

	store := NewLimiterStore(5, 1, time.Minute)
	defer store.Stop()

	var hits int
	handler := RateLimit(store, func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
	})

	request := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	request.RemoteAddr = "10.0.0.9:51234"

	rec := httptest.NewRecorder()
	handler(rec, request)
	req.Equal(http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler(rec, request)
	req.Equal(http.StatusTooManyRequests, rec.Code)
	req.Equal(1, hits)
	req.Contains(rec.Body.String(), "too many requests")
}

func TestCORS(t *testing.T) {
	req := require.New(t)

	handler := CORS("https://app.example.com", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/chat/history", nil))
	req.Equal(http.StatusTeapot, rec.Code)
	req.Equal("https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	// Preflight never reaches the wrapped handler
	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodOptions, "/chat/history", nil))
	req.Equal(http.StatusOK, rec.Code)
	req.Contains(rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}
