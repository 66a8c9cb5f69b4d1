package middleware

import (
	"ladle/internal/utils"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Admission control for mutating endpoints. Each user (or IP, before login)
// gets a token bucket; buckets live in an LRU so abandoned clients age out.
// Runs before any handler logic, so a rejected request never reaches the
// social services.

type bucket struct {
	mu     sync.Mutex
	tokens float64
	last   time.Time
}

type RateLimiter struct {
	mu      sync.Mutex // guards bucket creation
	buckets *lru.Cache[string, *bucket]
	rate    float64 // tokens per second
	burst   float64
}

// NewRateLimiter reads RATE_LIMIT_PER_MIN (default 30) and builds the
// shared limiter.
func NewRateLimiter() *RateLimiter {
	perMin := utils.StringToInt(os.Getenv("RATE_LIMIT_PER_MIN"))
	if perMin <= 0 {
		perMin = 30
	}

	cache, _ := lru.New[string, *bucket](4096)
	return &RateLimiter{
		buckets: cache,
		rate:    float64(perMin) / 60.0,
		burst:   float64(perMin),
	}
}

func (rl *RateLimiter) allow(key string) bool {
	// Creation is serialized so two concurrent first requests for a key
	// cannot each install their own full bucket
	rl.mu.Lock()
	b, ok := rl.buckets.Get(key)
	if !ok {
		b = &bucket{tokens: rl.burst, last: time.Now()}
		rl.buckets.Add(key, b)
	}
	rl.mu.Unlock()

	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens += now.Sub(b.last).Seconds() * rl.rate
	if b.tokens > rl.burst {
		b.tokens = rl.burst
	}
	b.last = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Limit is the gin middleware. Keyed by user id when logged in, client IP
// otherwise.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if user := CurrentUser(c); user != nil {
			key = "u:" + utils.UintToString(user.ID)
		}

		if !rl.allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, slow down"})
			return
		}
		c.Next()
	}
}
