package httpapi

import (
	"net/http"

	"golang.org/x/time/rate"
)

// rateLimiter is a single token bucket over the whole API surface. The admin
// caller is one application, not the public internet; a global bucket keeps a
// runaway client from saturating the log without per-client bookkeeping.
type rateLimiter struct {
	limiter *rate.Limiter
}

func newRateLimiter(perSecond float64, burst int) *rateLimiter {
	return &rateLimiter{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)

			return
		}

		next.ServeHTTP(w, r)
	})
}
