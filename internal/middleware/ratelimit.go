package middleware

import (
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lintindex/rules-index/internal/domain"
)

// TokenBucket refills continuously at rate tokens per second up to capacity
type TokenBucket struct {
	mu       sync.Mutex
	capacity int
	rate     int
	tokens   float64
	lastSeen time.Time
}

// NewTokenBucket creates a full bucket
func NewTokenBucket(capacity, rate int) *TokenBucket {
	return &TokenBucket{
		capacity: capacity,
		rate:     rate,
		tokens:   float64(capacity),
		lastSeen: time.Now(),
	}
}

// Allow takes one token and reports the whole tokens left.
// ok is false when the bucket is empty.
func (tb *TokenBucket) Allow() (remaining int, ok bool) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	tb.tokens = min(float64(tb.capacity), tb.tokens+now.Sub(tb.lastSeen).Seconds()*float64(tb.rate))
	tb.lastSeen = now

	if tb.tokens < 1 {
		return 0, false
	}
	tb.tokens--
	return int(tb.tokens), true
}

// RetryAfter is the whole number of seconds until the next token, at least 1
func (tb *TokenBucket) RetryAfter() int {
	if tb.rate <= 0 {
		return 60
	}
	return max(1, int(math.Ceil(1/float64(tb.rate))))
}

func (tb *TokenBucket) idleSince(now time.Time) time.Duration {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return now.Sub(tb.lastSeen)
}

type limit struct {
	capacity int
	rate     int
}

// RateLimiter keeps one token bucket per client IP and route group
type RateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*TokenBucket
	fallback limit
	routes   map[string]limit
}

// NewRateLimiter creates a limiter allowing rps requests per second with the
// given burst. The table fragment gets twice the budget since it is posted on
// every keystroke; the whole-catalog download gets a tenth.
func NewRateLimiter(rps, burst int) *RateLimiter {
	return &RateLimiter{
		buckets:  make(map[string]*TokenBucket),
		fallback: limit{burst, rps},
		routes: map[string]limit{
			"/table":      {burst * 2, rps * 2},
			"/v1/catalog": {max(burst/10, 1), max(rps/10, 1)},
			"/health":     {20, 2},
			"/metrics":    {20, 2},
		},
	}
}

// routeKey folds per-rule lookups onto one bucket
func routeKey(path string) string {
	if strings.HasPrefix(path, "/v1/rules/") {
		return "/v1/rules/+"
	}
	return path
}

func (rl *RateLimiter) bucket(client, route string) *TokenBucket {
	key := client + " " + route

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if b, ok := rl.buckets[key]; ok {
		return b
	}
	l, ok := rl.routes[route]
	if !ok {
		l = rl.fallback
	}
	b := NewTokenBucket(l.capacity, l.rate)
	rl.buckets[key] = b
	return b
}

// Middleware rejects requests over budget with 429 RATE_LIMIT and sets the
// X-RateLimit-Limit and X-RateLimit-Remaining headers
func (rl *RateLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		route := routeKey(c.Path())
		b := rl.bucket(c.IP(), route)

		c.Set("X-RateLimit-Limit", strconv.Itoa(b.capacity))
		remaining, ok := b.Allow()
		c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if ok {
			return c.Next()
		}

		retry := b.RetryAfter()
		c.Set("Retry-After", strconv.Itoa(retry))

		requestID, _ := c.Locals("requestid").(string)
		appErr := domain.NewAppError(domain.ErrRateLimit, "Rate limit exceeded", fiber.StatusTooManyRequests, map[string]any{
			"route":       route,
			"retry_after": retry,
		}).WithOperation(requestID, "rate_limit")

		return c.Status(appErr.StatusCode).JSON(fiber.Map{
			"status":  "error",
			"code":    appErr.Code,
			"message": appErr.Message,
			"details": appErr.Details,
		})
	}
}

// Sweep drops buckets untouched for longer than idle
func (rl *RateLimiter) Sweep(idle time.Duration) int {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	dropped := 0
	for key, b := range rl.buckets {
		if b.idleSince(now) > idle {
			delete(rl.buckets, key)
			dropped++
		}
	}
	return dropped
}

// Size returns the number of live buckets
func (rl *RateLimiter) Size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

// StartSweeper sweeps hour-idle buckets every interval until stop is called
func (rl *RateLimiter) StartSweeper(interval time.Duration) (stop func()) {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.Sweep(time.Hour)
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}
