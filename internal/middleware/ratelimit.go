package middleware

import (
	"net/http"

	"github.com/torchan-dev/torchan/internal/middleware/ratelimiter"
	"github.com/torchan-dev/torchan/internal/utils"
)

// RateLimit guards an endpoint with an in-memory token bucket keyed by the
// identity function. Independent of the persistent flood guard, which only
// covers accepted posts.
func RateLimit(rl *ratelimiter.ClientRateLimiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := getIdentity(r)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}
			if !rl.Allow(identity) {
				http.Error(w, "Rate limit exceeded, try again later", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GlobalRateLimit applies one shared bucket to every request.
func GlobalRateLimit(rl *ratelimiter.ClientRateLimiter) func(http.Handler) http.Handler {
	return RateLimit(rl, func(r *http.Request) (string, error) { return "global", nil })
}
