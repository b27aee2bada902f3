package server

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"
)

// RateLimiter counts requests per client IP in a fixed window
type RateLimiter struct {
	mu            sync.Mutex
	limit         int
	window        time.Duration
	countByIP     map[string]int
	lastResetTime time.Time
	now           func() time.Time
}

// NewRateLimiter allows limit requests per IP in each window
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:         limit,
		window:        window,
		countByIP:     make(map[string]int),
		lastResetTime: time.Now(),
		now:           time.Now,
	}
}

// Allow records a request and returns false if the rate limit is exceeded
func (l *RateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.now().Sub(l.lastResetTime) > l.window {
		l.countByIP = make(map[string]int)
		l.lastResetTime = l.now()
	}
	l.countByIP[ip]++

	count := l.countByIP[ip]
	if count > l.limit {
		if count%100 == 0 { // Log every 100 requests to avoid log spam
			slog.Warn(SecurityAlertHighRate, "ip", ip, "count_in_window", count)
		}
		return false
	}
	return true
}

// RateLimitMiddleware rejects clients over the limit with 429
func RateLimitMiddleware(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(remoteIP(r)) {
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// remoteIP returns the IP of the direct connection. Forwarding headers are
// ignored since the status server is not meant to sit behind a proxy.
func remoteIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// SecurityHeadersMiddleware adds security headers to responses
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(HeaderContentTypeOptions, HeaderValueNoSniff)
			w.Header().Set(HeaderFrameOptions, HeaderValueDeny)
			w.Header().Set(HeaderReferrerPolicy, HeaderValueReferrerNoReferrer)
			next.ServeHTTP(w, r)
		})
	}
}
