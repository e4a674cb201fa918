package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// rateLimiterStore holds a map of keys (IPs or user ids) to their rate limiters.
type rateLimiterStore struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	every    rate.Limit
	burst    int
}

func newRateLimiterStore(every rate.Limit, burst int) *rateLimiterStore {
	return &rateLimiterStore{limiters: make(map[string]*rate.Limiter), every: every, burst: burst}
}

// getLimiter returns the rate limiter for a given key, creating one if it doesn't exist.
func (s *rateLimiterStore) getLimiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(s.every, s.burst)
		s.limiters[key] = limiter
	}
	return limiter
}

// RateLimitMiddleware limits requests per IP address to perMinute with an equal burst.
func RateLimitMiddleware(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		perMinute = 200
	}
	store := newRateLimiterStore(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	return func(c *gin.Context) {
		ip := getClientIP(c)
		if !store.getLimiter(ip).Allow() {
			zap.L().Warn("Rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}

// UserRateLimitMiddleware allows one request per interval per authenticated user. It must run
// after AuthMiddleware.
func UserRateLimitMiddleware(interval time.Duration) gin.HandlerFunc {
	store := newRateLimiterStore(rate.Every(interval), 1)
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		key := id.ID
		if !ok {
			key = getClientIP(c)
		}
		if !store.getLimiter(key).Allow() {
			zap.L().Warn("User rate limit exceeded", zap.String("key", key))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Try again shortly."})
			return
		}
		c.Next()
	}
}
