package middleware

import (
	"sync"

	"github.com/gin-gonic/gin"
	apierrors "github.com/ymezzour/plant-task-api/internal/errors"
	"golang.org/x/time/rate"
)

// RateLimiter limits requests per client IP with a token bucket. Limiters
// live for the life of the process; the handful of internal users this app
// serves will never grow that map meaningfully.
func RateLimiter(r rate.Limit, b int) gin.HandlerFunc {
	var visitors = make(map[string]*rate.Limiter)
	var mu sync.Mutex

	getVisitor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		limiter, exists := visitors[ip]
		if !exists {
			limiter = rate.NewLimiter(r, b)
			visitors[ip] = limiter
		}
		return limiter
	}

	return func(c *gin.Context) {
		limiter := getVisitor(c.ClientIP())
		if !limiter.Allow() {
			apierrors.TooManyRequests(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
