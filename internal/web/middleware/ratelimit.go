package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/kozaktomas/photo-analyzer/internal/config"
	"github.com/kozaktomas/photo-analyzer/internal/constants"
)

// idleLimiterTTL is how long an unused per-client limiter is kept.
const idleLimiterTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter keeps one token bucket per client IP.
type rateLimiter struct {
	mu        sync.Mutex
	bucket    map[string]*clientLimiter
	rate      rate.Limit
	burstSize int
	lastSweep time.Time
	now       func() time.Time
}

func newRateLimiter(reqRate rate.Limit, burstSize int) *rateLimiter {
	return &rateLimiter{
		bucket:    make(map[string]*clientLimiter),
		rate:      reqRate,
		burstSize: burstSize,
		now:       time.Now,
	}
}

// allow reports whether the client may make a request now.
func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) > idleLimiterTTL {
		for key, cl := range rl.bucket {
			if now.Sub(cl.lastSeen) > idleLimiterTTL {
				delete(rl.bucket, key)
			}
		}
		rl.lastSweep = now
	}

	cl, ok := rl.bucket[ip]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burstSize)}
		rl.bucket[ip] = cl
	}
	cl.lastSeen = now

	return cl.limiter.AllowN(now, 1)
}

// clientIP returns the request's client address without the port.
// chi's RealIP middleware has already replaced RemoteAddr from proxy headers.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit returns middleware limiting each client IP to cfg.RequestsPerSecond with cfg.Burst.
// A zero rate disables limiting.
func RateLimit(cfg config.RateLimitConfig, logger logrus.FieldLogger) func(http.Handler) http.Handler {
	if cfg.RequestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	burst := max(cfg.Burst, 1)
	limiter := newRateLimiter(rate.Limit(cfg.RequestsPerSecond), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !limiter.allow(ip) {
				logger.WithField("ip", ip).Warn("too many requests")
				w.Header().Set("Retry-After", "1")
				writeJSONError(w, http.StatusTooManyRequests, constants.MsgTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
