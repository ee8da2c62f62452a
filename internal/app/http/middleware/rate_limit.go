package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Endpoint classes with separate thresholds. Counters are in-process;
// horizontally scaled deployments need sticky sessions or a shared store.
const (
	ClassAuth  = "auth"
	ClassRead  = "read"
	ClassWrite = "write"
)

type limitRule struct {
	max    int
	window time.Duration
}

var limitRules = map[string]limitRule{
	ClassAuth:  {max: 10, window: time.Minute},
	ClassRead:  {max: 120, window: time.Minute},
	ClassWrite: {max: 30, window: time.Minute},
}

type counter struct {
	mu    sync.Mutex
	start time.Time
	hits  int
}

// RateLimiter keeps an LRU of sliding counters keyed by caller+class so
// memory stays bounded no matter how many distinct IPs show up.
type RateLimiter struct {
	cache *lru.Cache[string, *counter]
	now   func() time.Time
}

func NewRateLimiter(size int) *RateLimiter {
	cache, _ := lru.New[string, *counter](size)
	return &RateLimiter{cache: cache, now: time.Now}
}

// Allow records one hit for the caller under the given class and reports
// whether it stays under the threshold.
func (rl *RateLimiter) Allow(key, class string) bool {
	rule, ok := limitRules[class]
	if !ok {
		rule = limitRules[ClassRead]
	}

	cacheKey := class + ":" + key
	ctr, ok := rl.cache.Get(cacheKey)
	if !ok {
		ctr = &counter{start: rl.now()}
		rl.cache.Add(cacheKey, ctr)
	}

	ctr.mu.Lock()
	defer ctr.mu.Unlock()

	now := rl.now()
	if now.Sub(ctr.start) >= rule.window {
		ctr.start = now
		ctr.hits = 0
	}
	ctr.hits++
	return ctr.hits <= rule.max
}

// Limit is the gin middleware for one endpoint class.
func (rl *RateLimiter) Limit(class string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP(), class) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, slow down"})
			return
		}
		c.Next()
	}
}
