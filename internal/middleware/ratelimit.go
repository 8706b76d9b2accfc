package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimiter enforces a sliding-window per-IP limit: a request is allowed
// when fewer than limit requests were seen in the trailing window. Rejected
// requests get a Retry-After header saying when the oldest tracked request
// ages out.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string][]time.Time
	limit    int
	window   time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}

	// Cleanup goroutine
	go func() {
		for {
			time.Sleep(window)
			cutoff := time.Now().Add(-window)
			rl.mu.Lock()
			for ip, times := range rl.visitors {
				if len(times) == 0 || times[len(times)-1].Before(cutoff) {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}()

	return rl
}

// allow records the request when under the limit; otherwise it reports the
// seconds until the next slot opens.
func (rl *RateLimiter) allow(ip string, now time.Time) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	times := rl.visitors[ip]
	cutoff := now.Add(-rl.window)

	// Drop requests that fell out of the window.
	kept := times[:0]
	for _, t := range times {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) < rl.limit {
		rl.visitors[ip] = append(kept, now)
		return true, 0
	}

	rl.visitors[ip] = kept
	retryAfter := int(rl.window.Seconds() - now.Sub(kept[0]).Seconds())
	if retryAfter < 0 {
		retryAfter = 0
	}
	return false, retryAfter
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, retryAfter := rl.allow(r.RemoteAddr, time.Now())
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.", r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
