package api

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// Quota bounds how many requests an identity may make per fixed window.
type Quota struct {
	Requests int
	Window   time.Duration
}

// Per-route quotas are configuration, not code.
var (
	quotaTasks   = Quota{Requests: 10, Window: 10 * time.Second}
	quotaJournal = Quota{Requests: 10, Window: 10 * time.Second}
	quotaRewards = Quota{Requests: 5, Window: 10 * time.Second}
	quotaDefault = Quota{Requests: 20, Window: 10 * time.Second}
)

// Result is the limiter's verdict for one request.
type Result struct {
	Allowed   bool
	Remaining int
	Reset     time.Time
}

const sweepInterval = time.Minute

type windowEntry struct {
	count     int
	resetTime time.Time
}

// MemoryLimiter is a process-local fixed-window counter keyed by identity.
// Counters are not shared across instances: under horizontal scaling the
// effective quota multiplies by instance count. Single-instance deployments
// accept that; multi-instance ones should use RedisLimiter instead.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	stop    chan struct{}
	once    sync.Once

	now func() time.Time
}

// NewMemoryLimiter creates a limiter and starts its background sweep, which
// drops expired windows every minute to bound memory.
func NewMemoryLimiter() *MemoryLimiter {
	l := &MemoryLimiter{
		entries: make(map[string]*windowEntry),
		stop:    make(chan struct{}),
		now:     time.Now,
	}
	go l.sweepLoop()
	return l
}

// Limit admits or rejects one request for the identifier. The window is
// fixed: it starts on the first request and is never extended by later ones,
// including rejected ones.
func (l *MemoryLimiter) Limit(_ context.Context, identifier string, q Quota) (Result, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[identifier]
	if !ok || now.After(entry.resetTime) {
		reset := now.Add(q.Window)
		l.entries[identifier] = &windowEntry{count: 1, resetTime: reset}
		return Result{Allowed: true, Remaining: q.Requests - 1, Reset: reset}, nil
	}

	if entry.count >= q.Requests {
		return Result{Allowed: false, Remaining: 0, Reset: entry.resetTime}, nil
	}

	entry.count++
	return Result{Allowed: true, Remaining: q.Requests - entry.count, Reset: entry.resetTime}, nil
}

// Close stops the background sweep.
func (l *MemoryLimiter) Close() {
	l.once.Do(func() { close(l.stop) })
}

func (l *MemoryLimiter) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

func (l *MemoryLimiter) sweep() {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, entry := range l.entries {
		if now.After(entry.resetTime) {
			delete(l.entries, id)
		}
	}
}

// rateLimitIdentity derives the throttling identity for a request: the
// session subject when one resolves, the client IP otherwise. Resolution
// happens before any auth check so unauthenticated probing is throttled too.
func rateLimitIdentity(c echo.Context, auth Authenticator) string {
	if auth != nil {
		if sess, err := auth.Resolve(c.Request()); err == nil && sess != nil {
			return "user:" + sess.UserID
		}
	}
	if ip := c.RealIP(); ip != "" {
		return "ip:" + ip
	}
	return "ip:unknown"
}

// RateLimitMiddleware throttles a route under the given quota. Admitted
// requests carry X-RateLimit-* headers; rejected ones get a 429 with
// Retry-After. Limiter failures fail open: throttling is protection, not a
// dependency.
func RateLimitMiddleware(limiter Limiter, q Quota, auth Authenticator, logger *log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identifier := rateLimitIdentity(c, auth)
			res, err := limiter.Limit(c.Request().Context(), identifier, q)
			if err != nil {
				if logger != nil {
					logger.WithField("identifier", identifier).Warnf("rate limiter unavailable: %v", err)
				}
				return next(c)
			}

			header := c.Response().Header()
			header.Set("X-RateLimit-Limit", strconv.Itoa(q.Requests))
			header.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			header.Set("X-RateLimit-Reset", res.Reset.UTC().Format(time.RFC3339))

			if !res.Allowed {
				retryAfter := int(time.Until(res.Reset).Seconds() + 1)
				if retryAfter < 1 {
					retryAfter = 1
				}
				header.Set("Retry-After", strconv.Itoa(retryAfter))
				return c.JSON(http.StatusTooManyRequests, errorEnvelope{Error: errorBody{
					Code:    codeRateLimited,
					Message: "Rate limit exceeded. Please try again later.",
					Details: map[string]int{"retryAfter": retryAfter},
				}})
			}

			return next(c)
		}
	}
}
