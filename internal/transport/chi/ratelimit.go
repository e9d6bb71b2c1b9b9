package chi

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimitMiddleware returns a middleware that enforces a global
// request rate with a token bucket. Probe and metrics paths are never
// limited. rps <= 0 disables limiting (pass-through).
func RateLimitMiddleware(rps float64, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(next http.Handler) http.Handler {
		if rps <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.Allow() {
				writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
