package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	"llm-usage-ledger/internal/domain"
	resp "llm-usage-ledger/internal/transport/http/response"
)

// 排队等待的上限
const concurrencyWait = 2 * time.Second

// ConcurrencyLimit 限制同时在处理的请求数（保护 DB 下游）；排队超时返回 503
func ConcurrencyLimit(max int64) gin.HandlerFunc {
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), concurrencyWait)
		err := sem.Acquire(ctx, 1)
		cancel()
		if err != nil {
			resp.Abort(c, domain.CodeServerBusy, "")
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
