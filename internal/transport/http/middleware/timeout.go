package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"llm-usage-ledger/internal/domain"
	resp "llm-usage-ledger/internal/transport/http/response"
)

// Timeout 给请求 context 加截止时间；下游（gorm / redis）按 ctx 取消
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			resp.Abort(c, domain.CodeRequestTimeout, "")
		}
	}
}
