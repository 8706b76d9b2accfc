package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiter_AllowsUnderLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	now := time.Now()

	for i := 0; i < 3; i++ {
		if ok, _ := rl.allow("1.2.3.4:5000", now); !ok {
			t.Fatalf("Request %d should be allowed", i+1)
		}
	}

	ok, retryAfter := rl.allow("1.2.3.4:5000", now)
	if ok {
		t.Error("Fourth request should be rejected")
	}
	if retryAfter <= 0 || retryAfter > 60 {
		t.Errorf("Expected Retry-After within the window, got %d", retryAfter)
	}
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	start := time.Now()

	rl.allow("ip", start)
	rl.allow("ip", start)

	if ok, _ := rl.allow("ip", start.Add(time.Second)); ok {
		t.Error("Third request inside the window should be rejected")
	}
	if ok, _ := rl.allow("ip", start.Add(61*time.Second)); !ok {
		t.Error("Request after the window expired should be allowed")
	}
}

func TestRateLimiter_PerIP(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	now := time.Now()

	rl.allow("a", now)
	if ok, _ := rl.allow("b", now); !ok {
		t.Error("Different IPs must not share a window")
	}
}

func TestRateLimiter_Middleware429(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	req.RemoteAddr = "9.9.9.9:1234"

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("First request: expected 200, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("Second request: expected 429, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("Expected Retry-After header on 429")
	}
}
