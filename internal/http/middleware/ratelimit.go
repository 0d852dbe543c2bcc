package middleware

import (
	"net/http"
	"sync"
	"time"
)

// Webhook route defaults. WhatsApp redelivers unacknowledged webhooks in
// bursts, so the burst allowance sits well above the steady rate.
const (
	DefaultWebhookRate  = 50
	DefaultWebhookBurst = 100
)

const (
	sweepEvery = 5 * time.Minute
	idleFor    = 10 * time.Minute
)

// RateLimiter is a token bucket per client key. The webhook route sits
// behind it so a runaway provider retry storm cannot saturate the
// conversation router.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*bucket
	rate    float64 // tokens per second
	burst   int     // max tokens
}

type bucket struct {
	tokens float64
	seen   time.Time
}

func (b *bucket) take(now time.Time, rate float64, burst int) bool {
	b.tokens += now.Sub(b.seen).Seconds() * rate
	if b.tokens > float64(burst) {
		b.tokens = float64(burst)
	}
	b.seen = now
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// NewRateLimiter creates a rate limiter allowing rate requests/sec with
// the given burst size per client.
func NewRateLimiter(rate float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*bucket),
		rate:    rate,
		burst:   burst,
	}
	go rl.sweep()
	return rl
}

// Allow reports whether one more request from key fits the limit.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.clients[key]
	if !ok {
		b = &bucket{tokens: float64(rl.burst), seen: now}
		rl.clients[key] = b
	}
	return b.take(now, rl.rate, rl.burst)
}

// sweep evicts buckets idle long enough to have refilled completely.
func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(sweepEvery)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		cutoff := time.Now().Add(-idleFor)
		for key, b := range rl.clients {
			if b.seen.Before(cutoff) {
				delete(rl.clients, key)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimit rejects requests exceeding the configured rate with 429 and
// a Retry-After hint.
func RateLimit(rate float64, burst int) func(http.Handler) http.Handler {
	limiter := NewRateLimiter(rate, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientKey(r)) {
				w.Header().Set("Retry-After", "1")
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientKey prefers the address recovered by chi's RealIP middleware.
func clientKey(r *http.Request) string {
	if xri := r.Header.Get("X-Real-Ip"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
