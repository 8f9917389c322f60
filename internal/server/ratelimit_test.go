package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestRateLimiterAllow(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	defer limiter.Stop()

	current := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return current }

	if !limiter.Allow("10.0.0.1") || !limiter.Allow("10.0.0.1") {
		t.Fatal("expected the first two requests to pass")
	}
	if limiter.Allow("10.0.0.1") {
		t.Error("expected the third request to be limited")
	}
	if !limiter.Allow("10.0.0.2") {
		t.Error("expected another client to have its own bucket")
	}

	current = current.Add(time.Minute)
	if !limiter.Allow("10.0.0.1") {
		t.Error("expected the bucket to refill after the window")
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)
	defer limiter.Stop()

	current := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return current }
	limiter.Allow("10.0.0.1")

	current = current.Add(2 * bucketCleanupThreshold)
	limiter.cleanup()
	if len(limiter.clients) != 0 {
		t.Errorf("expected idle buckets to be removed, %d remain", len(limiter.clients))
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewRateLimiter(1, time.Hour)
	defer limiter.Stop()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := RateLimit(zap.NewNop(), limiter, next)

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/version", nil))
	if first.Code != http.StatusNoContent {
		t.Fatalf("first request = %d, expected 204", first.Code)
	}

	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/version", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request = %d, expected 429", second.Code)
	}
}
