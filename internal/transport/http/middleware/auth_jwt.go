package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"llm-usage-ledger/internal/core/auth"
	"llm-usage-ledger/internal/domain"
	resp "llm-usage-ledger/internal/transport/http/response"
)

const KeyClaims = "claims"

// AuthJWT 校验 Bearer token；requireRole 非空时要求角色匹配
func AuthJWT(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.Abort(c, domain.CodeUnauthorized, "missing token")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			resp.Abort(c, domain.CodeUnauthorized, "invalid token")
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			resp.Abort(c, domain.CodeForbidden, "")
			return
		}
		c.Set(KeyClaims, claims)
		c.Next()
	}
}
