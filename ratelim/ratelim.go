package ratelim

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	requestsPerHour = 100
	limitMessage    = "Too many requests from this IP. Please try again in an hour"
)

// RateLimiter enforces 100 requests per IP per hour across the API surface.
type RateLimiter struct {
	visitors map[string]*rate.Limiter
	mu       sync.Mutex
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*rate.Limiter),
	}
}

// Get or create a rate limiter for an IP
func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, exists := rl.visitors[ip]; exists {
		return limiter
	}

	limiter := rate.NewLimiter(rate.Limit(float64(requestsPerHour)/3600), requestsPerHour)
	rl.visitors[ip] = limiter

	// Forget idle IPs after two hours so the map does not grow unbounded
	go func() {
		time.Sleep(2 * time.Hour)
		rl.mu.Lock()
		delete(rl.visitors, ip)
		rl.mu.Unlock()
	}()

	return limiter
}

// LimitHTTP enforces the limit on every request under /api. Views and
// static assets pass through uncounted.
func (rl *RateLimiter) LimitHTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api") && !rl.getLimiter(clientIP(r)).Allow() {
			http.Error(w, limitMessage, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
