package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"llm-usage-ledger/internal/domain"
	resp "llm-usage-ledger/internal/transport/http/response"
)

// Recovery panic 转 500，并记录到日志
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("panic recovered",
					zap.String("rid", c.GetString(KeyRequestID)),
					zap.String("path", c.Request.URL.Path),
					zap.String("panic", fmt.Sprint(rec)),
					zap.Stack("stack"),
				)
				resp.Abort(c, domain.CodeInternal, "")
			}
		}()
		c.Next()
	}
}
