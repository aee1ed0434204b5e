package middleware

import (
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/wolfman30/practice-comms-hub/internal/tenancy"
)

// TenantRateLimiter keeps one token bucket per practice.
type TenantRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewTenantRateLimiter allows ratePerMin requests per minute with the given
// burst per practice.
func NewTenantRateLimiter(ratePerMin, burst int) *TenantRateLimiter {
	if ratePerMin <= 0 {
		ratePerMin = 60
	}
	if burst <= 0 {
		burst = ratePerMin
	}
	return &TenantRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(float64(ratePerMin) / 60.0),
		burst:    burst,
	}
}

// Allow reports whether the practice is within its rate limit.
func (l *TenantRateLimiter) Allow(practiceID string) bool {
	l.mu.Lock()
	limiter, ok := l.limiters[practiceID]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[practiceID] = limiter
	}
	l.mu.Unlock()
	return limiter.Allow()
}

// RateLimitByPractice rejects requests exceeding the per-practice limit with
// 429 Too Many Requests. Requests without a practice id pass through; the
// tenancy middleware upstream decides whether those are allowed at all.
func RateLimitByPractice(limiter *TenantRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			practiceID, ok := tenancy.PracticeIDFromContext(r.Context())
			if ok && !limiter.Allow(practiceID) {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
