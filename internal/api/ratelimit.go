package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// per-client limits; generous for a shop LAN, but enough to keep a wedged
// terminal from hammering the backend
const (
	rateLimitPerSecond = 25
	rateLimitBurst     = 50
)

type clientLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func (cl *clientLimiters) get(ip string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	lim, ok := cl.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(rateLimitPerSecond), rateLimitBurst)
		cl.limiters[ip] = lim
	}
	return lim
}

// rateLimitMiddleware throttles requests per client IP
func rateLimitMiddleware() gin.HandlerFunc {
	clients := &clientLimiters{limiters: make(map[string]*rate.Limiter)}

	return func(c *gin.Context) {
		if !clients.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests",
			})
			return
		}
		c.Next()
	}
}
