package app

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type ipLimiter struct {
	mu       sync.Mutex
	visitors map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

func newIPLimiter(rps float64, burst int) *ipLimiter {
	return &ipLimiter{
		visitors: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

func (l *ipLimiter) getLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, exists := l.visitors[ip]; exists {
		return limiter
	}

	limiter := rate.NewLimiter(l.rps, l.burst)
	l.visitors[ip] = limiter

	// Clean up idle IPs after 10 minutes
	go func() {
		time.Sleep(10 * time.Minute)
		l.mu.Lock()
		delete(l.visitors, ip)
		l.mu.Unlock()
	}()

	return limiter
}

// MiddlewareRateLimit rejects clients that exceed the configured per-IP rate
// with a 429. A no-op when no rate limit is configured.
func (a *App) MiddlewareRateLimit(next http.Handler) http.Handler {
	if a.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			// RealIP may have rewritten RemoteAddr without a port.
			ip = r.RemoteAddr
		}
		if !a.limiter.getLimiter(ip).Allow() {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"error":   http.StatusTooManyRequests,
				"message": "too many requests",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
