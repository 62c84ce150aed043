package api

import (
	"agenda/internal/entities"
	"agenda/internal/logger"
	"agenda/internal/metrics"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu             sync.Mutex
	visitors       map[string]*visitor
	limit          rate.Limit
	burst          int
	trustForwarded bool
	now            func() time.Time
	metrics        *metrics.BookingMetrics
	logger         *zap.Logger
}

// NewRateLimiter keys buckets on the peer address. With trustForwarded set
// it uses the address the fronting proxy appended to X-Forwarded-For.
func NewRateLimiter(perMinute, burst int, trustForwarded bool, m *metrics.BookingMetrics, log *zap.Logger) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		visitors:       make(map[string]*visitor),
		limit:          rate.Every(time.Minute / time.Duration(perMinute)),
		burst:          burst,
		trustForwarded: trustForwarded,
		now:            time.Now,
		metrics:        m,
		logger:         logger.OrNop(log),
	}
}

func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = rl.now()
	return v.limiter
}

// Sweep drops buckets not used for idle and returns how many were removed.
func (rl *RateLimiter) Sweep(idle time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-idle)
	removed := 0
	for ip, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, ip)
			removed++
		}
	}
	return removed
}

// Schedule sweeps idle buckets on c every interval.
func (rl *RateLimiter) Schedule(c *cron.Cron, every, idle time.Duration) (cron.EntryID, error) {
	return c.AddFunc("@every "+every.String(), func() {
		if n := rl.Sweep(idle); n > 0 {
			rl.logger.Debug("rate limiter swept", zap.Int("removed", n))
		}
	})
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r, rl.trustForwarded)
		if !rl.getLimiter(ip).Allow() {
			rl.metrics.ObserveRateLimited()
			rl.logger.Warn("rate limit exceeded", zap.String("ip", ip), zap.String("path", r.URL.Path))
			writeJSON(w, http.StatusTooManyRequests, entities.ErrorResponse{Error: "Rate limit exceeded. Try again later."})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP ignores forwarding headers unless trustForwarded is set. The last
// X-Forwarded-For entry is the one written by the proxy, not the client.
func clientIP(r *http.Request, trustForwarded bool) string {
	if trustForwarded {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			parts := strings.Split(fwd, ",")
			if ip := strings.TrimSpace(parts[len(parts)-1]); ip != "" {
				return ip
			}
		}
		if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
