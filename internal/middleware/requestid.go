package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestID assigns a uuid to every request that arrives without one and
// echoes it back in the response. Error envelopes pick it up from the
// request header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
			r.Header.Set("X-Request-ID", id)
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}
