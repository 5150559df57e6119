package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"llm-usage-ledger/internal/domain"
	resp "llm-usage-ledger/internal/transport/http/response"
)

// RateLimit 全局令牌桶限速
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	lim := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if lim.Allow() {
			c.Next()
			return
		}
		resp.Abort(c, domain.CodeTooManyRequests, "")
	}
}

type ipBucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimitPerIP 每 IP 一个令牌桶；闲置超过 idle 的桶定期清掉
func RateLimitPerIP(rps rate.Limit, burst int) gin.HandlerFunc {
	const idle = 10 * time.Minute
	var (
		mu      sync.Mutex
		buckets = make(map[string]*ipBucket)
		sweep   = time.Now()
	)
	get := func(ip string, now time.Time) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		if now.Sub(sweep) > idle {
			for k, b := range buckets {
				if now.Sub(b.seen) > idle {
					delete(buckets, k)
				}
			}
			sweep = now
		}
		b, ok := buckets[ip]
		if !ok {
			b = &ipBucket{lim: rate.NewLimiter(rps, burst)}
			buckets[ip] = b
		}
		b.seen = now
		return b.lim
	}
	return func(c *gin.Context) {
		if get(c.ClientIP(), time.Now()).Allow() {
			c.Next()
			return
		}
		resp.Abort(c, domain.CodeTooManyRequests, "")
	}
}
